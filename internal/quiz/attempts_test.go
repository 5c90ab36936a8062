package quiz

import (
	"context"
	"testing"
	"time"

	"elearn-quiz/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.newQuiz(t, f.course.ID, "First")
	second := f.newQuiz(t, f.course.ID, "Second")
	foreign := f.newQuiz(t, f.otherCourse.ID, "Elsewhere")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.attempt(t, first, 65, base)
	f.attempt(t, second, 70, base.Add(2*time.Hour))
	f.attempt(t, first, 90, base.Add(time.Hour))
	f.attempt(t, foreign, 100, base.Add(3*time.Hour))

	attempts, err := f.svc.RecentAttempts(ctx, f.instructor.ID, f.course.ID, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, "Second", attempts[0].QuizTitle)
	assert.Equal(t, 70, attempts[0].ScorePct)
	assert.True(t, attempts[0].Passed, "score equal to passing score passes")
	assert.Equal(t, 90, attempts[1].ScorePct)
	assert.True(t, attempts[1].Passed)
	assert.Equal(t, 65, attempts[2].ScorePct)
	assert.False(t, attempts[2].Passed)
	for _, a := range attempts {
		assert.Equal(t, "linus", a.Username)
		assert.Equal(t, f.student.ID, a.UserID)
		assert.Equal(t, 70, a.PassingScorePct)
	}

	limited, err := f.svc.RecentAttempts(ctx, f.instructor.ID, f.course.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, attempts[0].AttemptID, limited[0].AttemptID)
	assert.Equal(t, attempts[1].AttemptID, limited[1].AttemptID)

	_, err = f.svc.RecentAttempts(ctx, f.other.ID, f.course.ID, 5)
	assert.True(t, apperr.Is(err, apperr.KindOwnership))
}

func TestRecentAttemptsDefaultLimit(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Popular")
	base := time.Now()
	for i := 0; i < 15; i++ {
		f.attempt(t, quizID, i, base.Add(time.Duration(i)*time.Minute))
	}

	attempts, err := NewAggregator(f.db).RecentAttempts(context.Background(), f.course.ID, -1)
	require.NoError(t, err)
	require.Len(t, attempts, defaultRecentAttempts)
	assert.Equal(t, 14, attempts[0].ScorePct)
	assert.Equal(t, 5, attempts[9].ScorePct)
}

func TestRecentAttemptsEmptyCourse(t *testing.T) {
	f := newFixture(t)

	attempts, err := f.svc.RecentAttempts(context.Background(), f.instructor.ID, f.course.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, attempts)
	assert.Empty(t, attempts)
}
