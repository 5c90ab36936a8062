// backend/internal/quiz/builder.go
package quiz

import (
	"context"
	"errors"
	"log"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

var errQuizGone = errors.New("quiz does not exist")

// Builder persists a question together with its answer rows in one
// transaction. It does not check ownership; callers do that first.
type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

// Add validates q and writes the question row and its option rows. Either
// all rows are committed or none are.
func (b *Builder) Add(ctx context.Context, q NewQuestion) (uint, error) {
	q, err := q.normalize()
	if err != nil {
		return 0, err
	}

	var questionID uint
	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Quiz{}).Where("quiz_id = ?", q.QuizID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errQuizGone
		}

		reference, _ := q.Answer.rows(0)
		question := models.Question{
			QuizID:          q.QuizID,
			QuestionText:    q.Text,
			QuestionType:    q.Answer.Type(),
			Points:          q.Points,
			ReferenceAnswer: reference,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		_, options := q.Answer.rows(question.ID)
		switch q.Answer.(type) {
		case MultipleChoice:
			for i := range options {
				if err := tx.Create(&options[i]).Error; err != nil {
					return err
				}
			}
		case TrueFalse:
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}

		questionID = question.ID
		return nil
	})
	if errors.Is(err, errQuizGone) {
		return 0, apperr.NotFound("Quiz not found or unauthorized access")
	}
	if err != nil {
		log.Printf("Error adding question to quiz %d: %v", q.QuizID, err)
		return 0, apperr.Persistence("Error adding question", err)
	}

	log.Printf("Added %s question %d to quiz %d", q.Answer.Type(), questionID, q.QuizID)
	return questionID, nil
}
