// backend/internal/certificate/service.go
package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusValid      = "valid"
	requiredProgress = 100
)

type Service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{repo: NewRepository(db), now: time.Now}
}

// Number formats a certificate number:
// CERT-<yyyymmdd>-<student>-<course>-<6 hex chars>.
func Number(issued time.Time, studentID, courseID uint, suffix string) string {
	return fmt.Sprintf("CERT-%s-%05d-%05d-%s", issued.Format("20060102"), studentID, courseID, suffix)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// Issue creates the completion certificate for a student who finished the
// course. One certificate per student and course.
func (s *Service) Issue(ctx context.Context, studentID, courseID uint) (*models.Certificate, error) {
	exists, err := s.repo.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, apperr.Persistence("Error checking certificates", err)
	}
	if exists {
		return nil, apperr.Conflict("Certificate for this course already exists!")
	}

	enrollment, err := s.repo.GetEnrollment(ctx, studentID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("You are not enrolled in this course.")
	}
	if err != nil {
		return nil, apperr.Persistence("Error checking enrollment", err)
	}
	if enrollment.Progress < requiredProgress {
		return nil, apperr.Validation("You must complete the course (100%%) before generating a certificate.")
	}

	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("Error loading course", err)
	}

	issued := s.now()
	cert := &models.Certificate{
		UserID:            studentID,
		CourseID:          courseID,
		CertificateNumber: Number(issued, studentID, courseID, randomSuffix()),
		Title:             "Certificate of Completion: " + course.Title,
		Status:            StatusValid,
		IssuedDate:        issued,
		CreatedBy:         studentID,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		// Lost a race with a concurrent request for the same course.
		if exists, _ := s.repo.Exists(ctx, studentID, courseID); exists {
			return nil, apperr.Conflict("Certificate for this course already exists!")
		}
		return nil, apperr.Persistence("Error generating certificate", err)
	}
	return cert, nil
}

func (s *Service) List(ctx context.Context, studentID uint) ([]models.CertificateView, error) {
	certs, err := s.repo.ListForUser(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("Error loading certificates", err)
	}
	return certs, nil
}

// Eligible returns the completed courses studentID can still claim a
// certificate for.
func (s *Service) Eligible(ctx context.Context, studentID uint) ([]models.EligibleCourse, error) {
	courses, err := s.repo.Eligible(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("Error loading eligible courses", err)
	}
	return courses, nil
}

func (s *Service) Get(ctx context.Context, studentID, certificateID uint) (*models.CertificateView, error) {
	cert, err := s.repo.GetForUser(ctx, certificateID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Certificate not found or unauthorized access.")
	}
	if err != nil {
		return nil, apperr.Persistence("Error loading certificate", err)
	}
	return cert, nil
}
