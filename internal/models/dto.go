// backend/internal/models/dto.go
package models

import "time"

// QuizWithStats is one row of the instructor dashboards.
type QuizWithStats struct {
	ID               uint      `json:"quiz_id" gorm:"column:quiz_id"`
	CourseID         uint      `json:"course_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TimeLimitMinutes int       `json:"time_limit" gorm:"column:time_limit"`
	PassingScorePct  int       `json:"passing_score" gorm:"column:passing_score"`
	IsRandomized     bool      `json:"is_randomized"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	CourseTitle      string    `json:"course_title"`
	QuestionCount    int64     `json:"question_count"`
	AttemptCount     int64     `json:"attempt_count"`
	AverageScore     *float64  `json:"average_score"`
}

type QuizDetail struct {
	Quiz
	CourseTitle string `json:"course_title"`
}

type QuestionWithOptions struct {
	Question
	OptionsCount int `json:"options_count"`
}

type CourseOverview struct {
	ID           uint   `json:"course_id" gorm:"column:course_id"`
	InstructorID uint   `json:"instructor_id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	QuizCount    int64  `json:"quiz_count"`
}

type AttemptSummary struct {
	AttemptID       uint      `json:"attempt_id"`
	QuizID          uint      `json:"quiz_id"`
	QuizTitle       string    `json:"quiz_title"`
	UserID          uint      `json:"user_id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	ScorePct        int       `json:"score"`
	PassingScorePct int       `json:"passing_score"`
	Passed          bool      `json:"passed"`
	CompletedAt     time.Time `json:"completed_at"`
}

type CertificateView struct {
	Certificate
	CourseTitle    string `json:"course_title"`
	StudentName    string `json:"student_name"`
	InstructorName string `json:"instructor_name"`
}

type TopicSummary struct {
	ID           uint       `json:"topic_id" gorm:"column:topic_id"`
	CategoryID   uint       `json:"category_id"`
	CategoryName string     `json:"category_name"`
	CourseID     *uint      `json:"course_id"`
	UserID       uint       `json:"user_id"`
	Username     string     `json:"username"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	LastReplyAt  *time.Time `json:"last_reply_at"`
	ReplyCount   int64      `json:"reply_count"`
}

type ReplyView struct {
	ID          uint              `json:"reply_id" gorm:"column:reply_id"`
	TopicID     uint              `json:"topic_id"`
	UserID      uint              `json:"user_id"`
	Username    string            `json:"username"`
	Content     string            `json:"content"`
	IsSolution  bool              `json:"is_solution"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Attachments []ForumAttachment `json:"attachments" gorm:"-"`
}

type TopicView struct {
	ID           uint              `json:"topic_id" gorm:"column:topic_id"`
	CategoryID   uint              `json:"category_id"`
	CategoryName string            `json:"category_name"`
	CourseID     *uint             `json:"course_id"`
	UserID       uint              `json:"user_id"`
	Username     string            `json:"username"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Attachments  []ForumAttachment `json:"attachments" gorm:"-"`
	Reactions    map[string]int64  `json:"reactions" gorm:"-"`
	Replies      []ReplyView       `json:"replies" gorm:"-"`
}

type EligibleCourse struct {
	CourseID       uint   `json:"course_id"`
	Title          string `json:"title"`
	Progress       int    `json:"progress"`
	InstructorName string `json:"instructor_name"`
}
