// backend/internal/quiz/attempts.go
package quiz

import (
	"context"
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

const defaultRecentAttempts = 10

// Aggregator answers read-only questions about quiz attempts.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// RecentAttempts returns the latest completed attempts across all quizzes
// of a course, newest first. A limit of zero or less means 10.
func (a *Aggregator) RecentAttempts(ctx context.Context, courseID uint, limit int) ([]models.AttemptSummary, error) {
	if limit <= 0 {
		limit = defaultRecentAttempts
	}
	attempts := []models.AttemptSummary{}
	err := a.db.WithContext(ctx).Raw(`
		SELECT qa.attempt_id, qa.quiz_id, q.title AS quiz_title, qa.user_id,
			u.username, u.full_name, qa.score AS score_pct,
			q.passing_score AS passing_score_pct, qa.completed_at
		FROM quiz_attempts qa
		JOIN quizzes q ON qa.quiz_id = q.quiz_id
		JOIN users u ON qa.user_id = u.user_id
		WHERE q.course_id = ?
		ORDER BY qa.completed_at DESC, qa.attempt_id DESC
		LIMIT ?
	`, courseID, limit).Scan(&attempts).Error
	if err != nil {
		log.Printf("Error getting recent attempts for course %d: %v", courseID, err)
		return nil, err
	}
	for i := range attempts {
		attempts[i].Passed = attempts[i].ScorePct >= attempts[i].PassingScorePct
	}
	return attempts, nil
}
