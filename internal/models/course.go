// backend/internal/models/course.go
package models

import "time"

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"

	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

type User struct {
	ID        uint      `json:"user_id" gorm:"primaryKey;column:user_id"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"full_name"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Course struct {
	ID           uint      `json:"course_id" gorm:"primaryKey;column:course_id"`
	InstructorID uint      `json:"instructor_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	Status       string    `json:"status" gorm:"type:varchar(20);default:draft"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

type Enrollment struct {
	ID         uint      `json:"enrollment_id" gorm:"primaryKey;column:enrollment_id"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID   uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Progress   int       `json:"progress" gorm:"not null;default:0"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

type Certificate struct {
	ID                uint      `json:"certificate_id" gorm:"primaryKey;column:certificate_id"`
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	Title             string    `json:"title" gorm:"not null"`
	Status            string    `json:"status" gorm:"type:varchar(20);not null"`
	IssuedDate        time.Time `json:"issued_date"`
	CreatedBy         uint      `json:"created_by"`
}

func (Certificate) TableName() string {
	return "certificates"
}
