// backend/internal/quiz/service.go
package quiz

import (
	"context"
	"errors"
	"log"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

// DashboardCache keeps each instructor's quiz dashboard between mutations.
// Entries live under a version; InvalidateDashboard moves to a new version
// so a listing that started before the bump cannot store stale rows where
// later reads look.
type DashboardCache interface {
	DashboardVersion(ctx context.Context, instructorID uint) (int64, error)
	GetDashboard(ctx context.Context, instructorID uint, version int64) ([]models.QuizWithStats, error)
	SetDashboard(ctx context.Context, instructorID uint, version int64, quizzes []models.QuizWithStats) error
	InvalidateDashboard(ctx context.Context, instructorID uint) error
}

// Notifier pushes a message to every open dashboard of one instructor.
type Notifier interface {
	SendToInstructor(instructorID uint, msgType string, data interface{})
}

const (
	msgQuizNotFound   = "Quiz not found or unauthorized access"
	msgCourseNotFound = "Course not found or unauthorized access"
)

type Service struct {
	repo     *Repository
	builder  *Builder
	deleter  *Deleter
	attempts *Aggregator
	cache    DashboardCache
	notifier Notifier
}

// NewService wires the quiz components over one database handle. cache and
// notifier may be nil.
func NewService(db *gorm.DB, cache DashboardCache, notifier Notifier) *Service {
	return &Service{
		repo:     NewRepository(db),
		builder:  NewBuilder(db),
		deleter:  NewDeleter(db),
		attempts: NewAggregator(db),
		cache:    cache,
		notifier: notifier,
	}
}

func (s *Service) CreateQuiz(ctx context.Context, instructorID uint, in QuizInput) (uint, error) {
	if err := in.normalize(); err != nil {
		return 0, err
	}
	if err := s.requireCourse(ctx, instructorID, in.CourseID, apperr.Ownership("Invalid course selected")); err != nil {
		return 0, err
	}

	quiz := &models.Quiz{
		CourseID:         in.CourseID,
		Title:            in.Title,
		Description:      in.Description,
		TimeLimitMinutes: in.TimeLimitMinutes,
		PassingScorePct:  in.PassingScorePct,
		IsRandomized:     in.IsRandomized,
		IsActive:         false,
	}
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return 0, apperr.Persistence("Error creating quiz", err)
	}

	s.changed(ctx, instructorID, "quiz_created", quiz)
	return quiz.ID, nil
}

func (s *Service) UpdateQuiz(ctx context.Context, instructorID, quizID uint, in QuizInput) (*models.Quiz, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	quiz, err := s.ownedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, err
	}
	if in.CourseID != quiz.CourseID {
		if err := s.requireCourse(ctx, instructorID, in.CourseID, apperr.Ownership("Invalid course selection")); err != nil {
			return nil, err
		}
	}

	quiz.CourseID = in.CourseID
	quiz.Title = in.Title
	quiz.Description = in.Description
	quiz.TimeLimitMinutes = in.TimeLimitMinutes
	quiz.PassingScorePct = in.PassingScorePct
	quiz.IsRandomized = in.IsRandomized
	quiz.IsActive = in.IsActive
	quiz.Course = nil
	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, apperr.Persistence("Error updating quiz", err)
	}

	s.changed(ctx, instructorID, "quiz_updated", quiz)
	return quiz, nil
}

func (s *Service) GetQuiz(ctx context.Context, instructorID, quizID uint) (*models.QuizDetail, error) {
	quiz, err := s.ownedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, err
	}
	detail := &models.QuizDetail{Quiz: *quiz}
	if quiz.Course != nil {
		detail.CourseTitle = quiz.Course.Title
	}
	return detail, nil
}

// ListQuizzesForInstructor serves the dashboard from cache when it can.
// Question and attempt counts are always read fresh because attempts are
// written by the student side without touching the cache.
func (s *Service) ListQuizzesForInstructor(ctx context.Context, instructorID uint) ([]models.QuizWithStats, error) {
	var version int64
	cacheable := false
	if s.cache != nil {
		v, err := s.cache.DashboardVersion(ctx, instructorID)
		if err != nil {
			log.Printf("Error reading dashboard version for instructor %d: %v", instructorID, err)
		} else {
			version, cacheable = v, true
		}
	}

	if cacheable {
		if cached, err := s.cache.GetDashboard(ctx, instructorID, version); err == nil {
			quizzes, err := s.refreshCounts(ctx, cached)
			if err != nil {
				return nil, apperr.Persistence("Error loading quizzes", err)
			}
			return quizzes, nil
		}
	}

	quizzes, err := s.repo.ListQuizzesForInstructor(ctx, instructorID)
	if err != nil {
		return nil, apperr.Persistence("Error loading quizzes", err)
	}

	if cacheable {
		if err := s.cache.SetDashboard(ctx, instructorID, version, quizzes); err != nil {
			log.Printf("Error caching dashboard for instructor %d: %v", instructorID, err)
		}
	}
	return quizzes, nil
}

// refreshCounts overlays current counts on cached rows and drops rows whose
// quiz is gone.
func (s *Service) refreshCounts(ctx context.Context, cached []models.QuizWithStats) ([]models.QuizWithStats, error) {
	ids := make([]uint, len(cached))
	for i, q := range cached {
		ids[i] = q.ID
	}
	counts, err := s.repo.CountsForQuizzes(ctx, ids)
	if err != nil {
		return nil, err
	}
	quizzes := make([]models.QuizWithStats, 0, len(cached))
	for _, q := range cached {
		c, ok := counts[q.ID]
		if !ok {
			continue
		}
		q.QuestionCount = c.QuestionCount
		q.AttemptCount = c.AttemptCount
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

func (s *Service) ListQuizzesForCourse(ctx context.Context, instructorID, courseID uint) ([]models.QuizWithStats, error) {
	if err := s.requireCourse(ctx, instructorID, courseID, apperr.Ownership(msgCourseNotFound)); err != nil {
		return nil, err
	}
	quizzes, err := s.repo.ListQuizzesForCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("Error loading quizzes", err)
	}
	return quizzes, nil
}

func (s *Service) ListQuestions(ctx context.Context, instructorID, quizID uint) ([]models.QuestionWithOptions, error) {
	if _, err := s.ownedQuiz(ctx, instructorID, quizID); err != nil {
		return nil, err
	}
	questions, err := s.repo.GetQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, apperr.Persistence("Error loading questions", err)
	}
	out := make([]models.QuestionWithOptions, len(questions))
	for i, q := range questions {
		out[i] = models.QuestionWithOptions{Question: q, OptionsCount: len(q.Options)}
	}
	return out, nil
}

// AddQuestion checks the input, then ownership, then hands off to the
// builder.
func (s *Service) AddQuestion(ctx context.Context, instructorID uint, q NewQuestion) (uint, error) {
	if _, err := q.normalize(); err != nil {
		return 0, err
	}
	if _, err := s.ownedQuiz(ctx, instructorID, q.QuizID); err != nil {
		return 0, err
	}
	questionID, err := s.builder.Add(ctx, q)
	if err != nil {
		return 0, err
	}

	s.changed(ctx, instructorID, "question_added", map[string]uint{
		"quiz_id":     q.QuizID,
		"question_id": questionID,
	})
	return questionID, nil
}

// DeleteQuiz removes the quiz with its attempts, options and questions.
func (s *Service) DeleteQuiz(ctx context.Context, instructorID, quizID uint) (DeleteReport, error) {
	if _, err := s.ownedQuiz(ctx, instructorID, quizID); err != nil {
		return nil, err
	}
	report, err := s.deleter.Delete(ctx, quizID)
	if errors.Is(err, errQuizVanished) {
		return nil, apperr.NotFound(msgQuizNotFound)
	}
	if err != nil {
		log.Printf("Error deleting quiz %d: %v", quizID, err)
		return nil, apperr.Persistence("Error deleting quiz", err)
	}

	s.changed(ctx, instructorID, "quiz_deleted", map[string]interface{}{
		"quiz_id": quizID,
		"removed": report,
	})
	return report, nil
}

func (s *Service) RecentAttempts(ctx context.Context, instructorID, courseID uint, limit int) ([]models.AttemptSummary, error) {
	if err := s.requireCourse(ctx, instructorID, courseID, apperr.Ownership(msgCourseNotFound)); err != nil {
		return nil, err
	}
	attempts, err := s.attempts.RecentAttempts(ctx, courseID, limit)
	if err != nil {
		return nil, apperr.Persistence("Error loading attempts", err)
	}
	return attempts, nil
}

func (s *Service) ListCourses(ctx context.Context, instructorID uint, publishedOnly bool) ([]models.Course, error) {
	courses, err := s.repo.ListCourses(ctx, instructorID, publishedOnly)
	if err != nil {
		return nil, apperr.Persistence("Error loading courses", err)
	}
	return courses, nil
}

func (s *Service) GetCourseOverview(ctx context.Context, instructorID, courseID uint) (*models.CourseOverview, error) {
	overview, err := s.repo.GetCourseOverview(ctx, courseID, instructorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgCourseNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("Error loading course", err)
	}
	return overview, nil
}

// ownedQuiz resolves quizID through its course to instructorID. A quiz owned
// by someone else and a missing quiz carry the same message.
func (s *Service) ownedQuiz(ctx context.Context, instructorID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.GetOwnedQuiz(ctx, quizID, instructorID)
	if err == nil {
		return quiz, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error getting quiz %d: %v", quizID, err)
		return nil, apperr.Persistence("Error loading quiz", err)
	}
	exists, err := s.repo.QuizExists(ctx, quizID)
	if err != nil {
		return nil, apperr.Persistence("Error loading quiz", err)
	}
	if exists {
		return nil, apperr.Ownership(msgQuizNotFound)
	}
	return nil, apperr.NotFound(msgQuizNotFound)
}

func (s *Service) requireCourse(ctx context.Context, instructorID, courseID uint, denied *apperr.Error) error {
	owned, err := s.repo.CourseOwnedBy(ctx, courseID, instructorID)
	if err != nil {
		return apperr.Persistence("Error checking course", err)
	}
	if !owned {
		return denied
	}
	return nil
}

// changed drops the cached dashboard and tells open dashboards.
func (s *Service) changed(ctx context.Context, instructorID uint, msgType string, data interface{}) {
	if s.cache != nil {
		if err := s.cache.InvalidateDashboard(ctx, instructorID); err != nil {
			log.Printf("Error invalidating dashboard for instructor %d: %v", instructorID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.SendToInstructor(instructorID, msgType, data)
	}
}
