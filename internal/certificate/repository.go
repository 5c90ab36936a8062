// backend/internal/certificate/repository.go
package certificate

import (
	"context"
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const viewQuery = `
	SELECT cert.*, c.title AS course_title,
		u.full_name AS student_name, u2.full_name AS instructor_name
	FROM certificates cert
	JOIN courses c ON cert.course_id = c.course_id
	JOIN users u ON cert.user_id = u.user_id
	JOIN users u2 ON c.instructor_id = u2.user_id`

func (r *Repository) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetEnrollment(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *Repository) GetCourse(ctx context.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *Repository) Create(ctx context.Context, cert *models.Certificate) error {
	if err := r.db.WithContext(ctx).Create(cert).Error; err != nil {
		log.Printf("Error creating certificate for user %d course %d: %v", cert.UserID, cert.CourseID, err)
		return err
	}
	log.Printf("Issued certificate %s", cert.CertificateNumber)
	return nil
}

func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]models.CertificateView, error) {
	certs := []models.CertificateView{}
	err := r.db.WithContext(ctx).Raw(viewQuery+`
		WHERE cert.user_id = ?
		ORDER BY cert.issued_date DESC, cert.certificate_id DESC
	`, userID).Scan(&certs).Error
	if err != nil {
		log.Printf("Error listing certificates for user %d: %v", userID, err)
		return nil, err
	}
	return certs, nil
}

// GetForUser returns gorm.ErrRecordNotFound unless certificateID belongs to
// userID.
func (r *Repository) GetForUser(ctx context.Context, certificateID, userID uint) (*models.CertificateView, error) {
	var certs []models.CertificateView
	err := r.db.WithContext(ctx).Raw(viewQuery+`
		WHERE cert.certificate_id = ? AND cert.user_id = ?
	`, certificateID, userID).Scan(&certs).Error
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &certs[0], nil
}

// Eligible lists courses userID has completed but holds no certificate for.
func (r *Repository) Eligible(ctx context.Context, userID uint) ([]models.EligibleCourse, error) {
	courses := []models.EligibleCourse{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.course_id, c.title, e.progress, u.full_name AS instructor_name
		FROM enrollments e
		JOIN courses c ON e.course_id = c.course_id
		JOIN users u ON c.instructor_id = u.user_id
		WHERE e.user_id = ?
			AND e.progress = 100
			AND c.course_id NOT IN (SELECT course_id FROM certificates WHERE user_id = ?)
		ORDER BY c.title, c.course_id
	`, userID, userID).Scan(&courses).Error
	if err != nil {
		log.Printf("Error listing eligible courses for user %d: %v", userID, err)
		return nil, err
	}
	return courses, nil
}
