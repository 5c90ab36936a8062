// backend/internal/quiz/repository.go
package quiz

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

const quizStatsColumns = `
	q.quiz_id, q.course_id, q.title, q.description, q.time_limit, q.passing_score,
	q.is_randomized, q.is_active, q.created_at, q.updated_at,
	c.title AS course_title,
	(SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = q.quiz_id) AS question_count,
	(SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = q.quiz_id) AS attempt_count`

func (r *Repository) CourseOwnedBy(ctx context.Context, courseID, instructorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("course_id = ? AND instructor_id = ?", courseID, instructorID).
		Count(&count).Error
	if err != nil {
		log.Printf("Error checking owner of course %d: %v", courseID, err)
		return false, err
	}
	return count == 1, nil
}

// GetOwnedQuiz loads a quiz only if its course belongs to instructorID.
// Returns gorm.ErrRecordNotFound otherwise.
func (r *Repository) GetOwnedQuiz(ctx context.Context, quizID, instructorID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Select("quizzes.*").
		Joins("JOIN courses ON courses.course_id = quizzes.course_id").
		Where("quizzes.quiz_id = ? AND courses.instructor_id = ?", quizID, instructorID).
		Preload("Course").
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) QuizExists(ctx context.Context, quizID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	err := r.db.WithContext(ctx).Create(quiz).Error
	if err != nil {
		log.Printf("Error creating quiz: %v", err)
		return err
	}
	log.Printf("Created quiz with ID: %d", quiz.ID)
	return nil
}

// UpdateQuiz writes every column of quiz; UpdatedAt is refreshed by gorm.
func (r *Repository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	err := r.db.WithContext(ctx).Omit("Course").Save(quiz).Error
	if err != nil {
		log.Printf("Error updating quiz: %v", err)
		return err
	}
	log.Printf("Updated quiz with ID: %d", quiz.ID)
	return nil
}

func (r *Repository) ListQuizzesForInstructor(ctx context.Context, instructorID uint) ([]models.QuizWithStats, error) {
	quizzes := []models.QuizWithStats{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quizStatsColumns+`
		FROM quizzes q
		JOIN courses c ON q.course_id = c.course_id
		WHERE c.instructor_id = ?
		ORDER BY q.created_at DESC, q.quiz_id DESC
	`, instructorID).Scan(&quizzes).Error
	if err != nil {
		log.Printf("Error getting quizzes for instructor %d: %v", instructorID, err)
		return nil, err
	}
	return quizzes, nil
}

// QuizCounts holds the attempt-dependent numbers of a dashboard row.
type QuizCounts struct {
	QuizID        uint
	QuestionCount int64
	AttemptCount  int64
}

// CountsForQuizzes reads question and attempt counts for quizIDs. Quizzes
// that no longer exist are absent from the result.
func (r *Repository) CountsForQuizzes(ctx context.Context, quizIDs []uint) (map[uint]QuizCounts, error) {
	out := make(map[uint]QuizCounts, len(quizIDs))
	if len(quizIDs) == 0 {
		return out, nil
	}
	var rows []QuizCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT q.quiz_id,
			(SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = q.quiz_id) AS question_count,
			(SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = q.quiz_id) AS attempt_count
		FROM quizzes q
		WHERE q.quiz_id IN ?
	`, quizIDs).Scan(&rows).Error
	if err != nil {
		log.Printf("Error counting quiz stats: %v", err)
		return nil, err
	}
	for _, row := range rows {
		out[row.QuizID] = row
	}
	return out, nil
}

func (r *Repository) ListQuizzesForCourse(ctx context.Context, courseID uint) ([]models.QuizWithStats, error) {
	quizzes := []models.QuizWithStats{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quizStatsColumns+`,
			(SELECT CAST(AVG(score) AS FLOAT) FROM quiz_attempts WHERE quiz_id = q.quiz_id) AS average_score
		FROM quizzes q
		JOIN courses c ON q.course_id = c.course_id
		WHERE q.course_id = ?
		ORDER BY q.created_at DESC, q.quiz_id DESC
	`, courseID).Scan(&quizzes).Error
	if err != nil {
		log.Printf("Error getting quizzes for course %d: %v", courseID, err)
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) GetQuizQuestions(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_id")
		}).
		Order("question_id").
		Find(&questions).Error
	if err != nil {
		log.Printf("Error getting questions: %v", err)
		return nil, err
	}

	log.Printf("Found %d questions for quiz %d", len(questions), quizID)
	return questions, nil
}

func (r *Repository) ListCourses(ctx context.Context, instructorID uint, publishedOnly bool) ([]models.Course, error) {
	courses := []models.Course{}
	q := r.db.WithContext(ctx).Where("instructor_id = ?", instructorID)
	if publishedOnly {
		q = q.Where("status = ?", models.CourseStatusPublished)
	}
	if err := q.Order("title").Find(&courses).Error; err != nil {
		log.Printf("Error getting courses for instructor %d: %v", instructorID, err)
		return nil, err
	}
	return courses, nil
}

func (r *Repository) GetCourseOverview(ctx context.Context, courseID, instructorID uint) (*models.CourseOverview, error) {
	var overviews []models.CourseOverview
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.course_id, c.instructor_id, c.title, c.status,
			(SELECT COUNT(*) FROM quizzes WHERE course_id = c.course_id) AS quiz_count
		FROM courses c
		WHERE c.course_id = ? AND c.instructor_id = ?
	`, courseID, instructorID).Scan(&overviews).Error
	if err != nil {
		log.Printf("Error getting course %d: %v", courseID, err)
		return nil, err
	}
	if len(overviews) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &overviews[0], nil
}
