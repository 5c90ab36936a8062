// backend/internal/models/quiz.go
package models

import "time"

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionEssay          QuestionType = "essay"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionEssay:
		return true
	}
	return false
}

type Quiz struct {
	ID               uint      `json:"quiz_id" gorm:"primaryKey;column:quiz_id"`
	CourseID         uint      `json:"course_id" gorm:"not null;index"`
	Title            string    `json:"title" gorm:"not null"`
	Description      string    `json:"description"`
	TimeLimitMinutes int       `json:"time_limit" gorm:"column:time_limit;not null"`
	PassingScorePct  int       `json:"passing_score" gorm:"column:passing_score;not null"`
	IsRandomized     bool      `json:"is_randomized" gorm:"default:false"`
	IsActive         bool      `json:"is_active" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Course           *Course   `json:"-" gorm:"foreignKey:CourseID;references:ID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	ID              uint         `json:"question_id" gorm:"primaryKey;column:question_id"`
	QuizID          uint         `json:"quiz_id" gorm:"not null;index"`
	QuestionText    string       `json:"question_text" gorm:"not null"`
	QuestionType    QuestionType `json:"question_type" gorm:"type:varchar(20);not null"`
	Points          int          `json:"points" gorm:"not null;default:1"`
	ReferenceAnswer *string      `json:"reference_answer,omitempty"`
	Options         []Option     `json:"options,omitempty" gorm:"foreignKey:QuestionID;references:ID"`
	Quiz            *Quiz        `json:"-" gorm:"foreignKey:QuizID;references:ID"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

type Option struct {
	ID         uint      `json:"option_id" gorm:"primaryKey;column:option_id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	OptionText string    `json:"option_text" gorm:"not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null;default:false"`
	Question   *Question `json:"-" gorm:"foreignKey:QuestionID;references:ID"`
}

func (Option) TableName() string {
	return "quiz_options"
}

type QuizAttempt struct {
	ID          uint      `json:"attempt_id" gorm:"primaryKey;column:attempt_id"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;index"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	ScorePct    int       `json:"score" gorm:"column:score;not null"`
	CompletedAt time.Time `json:"completed_at"`
	Quiz        *Quiz     `json:"-" gorm:"foreignKey:QuizID;references:ID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
