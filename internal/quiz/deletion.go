// backend/internal/quiz/deletion.go
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

// teardownStep deletes one table's share of a quiz subtree.
type teardownStep struct {
	table string
	run   func(tx *gorm.DB, quizID uint) *gorm.DB
}

// quizTeardown lists the deletes children first. Options go before
// questions because they are only reachable through them.
var quizTeardown = []teardownStep{
	{"quiz_attempts", func(tx *gorm.DB, quizID uint) *gorm.DB {
		return tx.Where("quiz_id = ?", quizID).Delete(&models.QuizAttempt{})
	}},
	{"quiz_options", func(tx *gorm.DB, quizID uint) *gorm.DB {
		questions := tx.Model(&models.Question{}).Select("question_id").Where("quiz_id = ?", quizID)
		return tx.Where("question_id IN (?)", questions).Delete(&models.Option{})
	}},
	{"quiz_questions", func(tx *gorm.DB, quizID uint) *gorm.DB {
		return tx.Where("quiz_id = ?", quizID).Delete(&models.Question{})
	}},
	{"quizzes", func(tx *gorm.DB, quizID uint) *gorm.DB {
		return tx.Where("quiz_id = ?", quizID).Delete(&models.Quiz{})
	}},
}

// DeleteReport counts the rows removed per table.
type DeleteReport map[string]int64

var errQuizVanished = errors.New("quiz row already deleted")

// Deleter removes a quiz and everything it owns inside one transaction.
type Deleter struct {
	db *gorm.DB
}

func NewDeleter(db *gorm.DB) *Deleter {
	return &Deleter{db: db}
}

// Delete runs quizTeardown for quizID. Ownership must already be checked.
// If the quiz row itself is gone by the time the last step runs, nothing is
// committed and errQuizVanished is returned.
func (d *Deleter) Delete(ctx context.Context, quizID uint) (DeleteReport, error) {
	report := DeleteReport{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range quizTeardown {
			res := step.run(tx, quizID)
			if res.Error != nil {
				return fmt.Errorf("delete %s: %w", step.table, res.Error)
			}
			report[step.table] = res.RowsAffected
		}
		if report["quizzes"] != 1 {
			return errQuizVanished
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Deleted quiz %d: %d attempts, %d options, %d questions",
		quizID, report["quiz_attempts"], report["quiz_options"], report["quiz_questions"])
	return report, nil
}
