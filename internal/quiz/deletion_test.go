package quiz

import (
	"context"
	"testing"
	"time"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// populate gives quizID two multiple choice questions with four options
// each, one essay and five attempts.
func populate(t *testing.T, f *fixture, quizID uint) {
	t.Helper()
	b := NewBuilder(f.db)
	ctx := context.Background()
	for _, text := range []string{"First?", "Second?"} {
		_, err := b.Add(ctx, NewQuestion{QuizID: quizID, Text: text, Points: 1,
			Answer: MultipleChoice{Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3}})
		require.NoError(t, err)
	}
	_, err := b.Add(ctx, NewQuestion{QuizID: quizID, Text: "Discuss", Points: 5, Answer: Essay{}})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		f.attempt(t, quizID, 50+i*10, time.Now())
	}
}

func TestDeleteQuizRemovesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quizID := f.newQuiz(t, f.course.ID, "Doomed")
	keep := f.newQuiz(t, f.course.ID, "Survivor")
	populate(t, f, quizID)
	populate(t, f, keep)

	report, err := f.svc.DeleteQuiz(ctx, f.instructor.ID, quizID)
	require.NoError(t, err)
	assert.Equal(t, DeleteReport{
		"quiz_attempts":  5,
		"quiz_options":   8,
		"quiz_questions": 3,
		"quizzes":        1,
	}, report)

	quizzes, err := f.svc.ListQuizzesForCourse(ctx, f.instructor.ID, f.course.ID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, keep, quizzes[0].ID)
	assert.Equal(t, int64(3), quizzes[0].QuestionCount)
	assert.Equal(t, int64(5), quizzes[0].AttemptCount)

	assert.Zero(t, f.count(t, &models.Question{}, "quiz_id = ?", quizID))
	assert.Zero(t, f.count(t, &models.QuizAttempt{}, "quiz_id = ?", quizID))
	assert.Equal(t, int64(8), f.total(t, &models.Option{}))

	_, err = f.svc.DeleteQuiz(ctx, f.instructor.ID, quizID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteQuizByNonOwner(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Mine")
	populate(t, f, quizID)

	_, err := f.svc.DeleteQuiz(context.Background(), f.other.ID, quizID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindOwnership))
	assert.Equal(t, int64(1), f.total(t, &models.Quiz{}))
	assert.Equal(t, int64(3), f.total(t, &models.Question{}))
	assert.Equal(t, int64(8), f.total(t, &models.Option{}))
	assert.Equal(t, int64(5), f.total(t, &models.QuizAttempt{}))
	assert.Empty(t, f.notes.types())
}

func TestDeleteQuizRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Sticky")
	populate(t, f, quizID)

	err := f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_questions", func(tx *gorm.DB) {
		if tx.Statement.Table == "quiz_questions" {
			tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)

	_, err = f.svc.DeleteQuiz(context.Background(), f.instructor.ID, quizID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.ErrorIs(t, err, errInjected)

	assert.Equal(t, int64(1), f.total(t, &models.Quiz{}))
	assert.Equal(t, int64(3), f.total(t, &models.Question{}))
	assert.Equal(t, int64(8), f.total(t, &models.Option{}))
	assert.Equal(t, int64(5), f.total(t, &models.QuizAttempt{}))
}

func TestDeleterReportsVanishedQuiz(t *testing.T) {
	f := newFixture(t)

	_, err := NewDeleter(f.db).Delete(context.Background(), 4242)
	assert.ErrorIs(t, err, errQuizVanished)
}
