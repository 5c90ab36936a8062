package quiz

import (
	"context"
	"testing"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadQuestion(t *testing.T, f *fixture, id uint) models.Question {
	t.Helper()
	var q models.Question
	require.NoError(t, f.db.Preload("Options").First(&q, "question_id = ?", id).Error)
	return q
}

func TestAddMultipleChoice(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Capitals")

	id, err := f.svc.AddQuestion(context.Background(), f.instructor.ID, NewQuestion{
		QuizID: quizID,
		Text:   "  Capital of France?  ",
		Points: 2,
		Answer: MultipleChoice{Options: []string{"Paris", "Lyon", "Nice", "Lille"}, CorrectIndex: 0},
	})
	require.NoError(t, err)

	q := loadQuestion(t, f, id)
	assert.Equal(t, "Capital of France?", q.QuestionText)
	assert.Equal(t, models.QuestionMultipleChoice, q.QuestionType)
	assert.Equal(t, 2, q.Points)
	assert.Nil(t, q.ReferenceAnswer)
	require.Len(t, q.Options, 4)
	for _, o := range q.Options {
		assert.Equal(t, o.OptionText == "Paris", o.IsCorrect, o.OptionText)
	}
}

func TestAddTrueFalse(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Facts")

	id, err := f.svc.AddQuestion(context.Background(), f.instructor.ID, NewQuestion{
		QuizID: quizID, Text: "Go has generics", Points: 1, Answer: TrueFalse{Correct: true},
	})
	require.NoError(t, err)

	q := loadQuestion(t, f, id)
	require.Len(t, q.Options, 2)
	got := map[string]bool{}
	for _, o := range q.Options {
		got[o.OptionText] = o.IsCorrect
	}
	assert.Equal(t, map[string]bool{"True": true, "False": false}, got)
}

func TestAddEssay(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Essays")
	ctx := context.Background()

	id, err := f.svc.AddQuestion(ctx, f.instructor.ID, NewQuestion{
		QuizID: quizID, Text: "Explain channels", Points: 10, Answer: Essay{ReferenceAnswer: " Typed conduits "},
	})
	require.NoError(t, err)
	q := loadQuestion(t, f, id)
	assert.Empty(t, q.Options)
	require.NotNil(t, q.ReferenceAnswer)
	assert.Equal(t, "Typed conduits", *q.ReferenceAnswer)

	id, err = f.svc.AddQuestion(ctx, f.instructor.ID, NewQuestion{
		QuizID: quizID, Text: "Explain select", Points: 10, Answer: Essay{ReferenceAnswer: "   "},
	})
	require.NoError(t, err)
	assert.Nil(t, loadQuestion(t, f, id).ReferenceAnswer)
}

func TestAddQuestionValidation(t *testing.T) {
	tests := []struct {
		name string
		q    NewQuestion
	}{
		{"blank text", NewQuestion{Text: " ", Points: 1, Answer: TrueFalse{}}},
		{"zero points", NewQuestion{Text: "Q", Points: 0, Answer: TrueFalse{}}},
		{"no answer", NewQuestion{Text: "Q", Points: 1}},
		{"one option after dropping blanks", NewQuestion{Text: "Q", Points: 1,
			Answer: MultipleChoice{Options: []string{"A", "", "  "}, CorrectIndex: 0}}},
		{"correct option is blank", NewQuestion{Text: "Q", Points: 1,
			Answer: MultipleChoice{Options: []string{"A", "", "B"}, CorrectIndex: 1}}},
		{"correct index out of range", NewQuestion{Text: "Q", Points: 1,
			Answer: MultipleChoice{Options: []string{"A", "B"}, CorrectIndex: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.q.QuizID = f.newQuiz(t, f.course.ID, "Checks")

			_, err := f.svc.AddQuestion(context.Background(), f.instructor.ID, tt.q)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation), err.Error())
			assert.Zero(t, f.total(t, &models.Question{}))
			assert.Zero(t, f.total(t, &models.Option{}))
		})
	}
}

func TestAddMultipleChoiceDropsBlankOptions(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Sparse")

	id, err := f.svc.AddQuestion(context.Background(), f.instructor.ID, NewQuestion{
		QuizID: quizID, Text: "Pick B", Points: 1,
		Answer: MultipleChoice{Options: []string{"A", "", "B", " "}, CorrectIndex: 2},
	})
	require.NoError(t, err)

	q := loadQuestion(t, f, id)
	require.Len(t, q.Options, 2)
	assert.Equal(t, int64(1), f.count(t, &models.Option{}, "question_id = ? AND is_correct = ?", id, true))
	assert.Equal(t, int64(1), f.count(t, &models.Option{}, "question_id = ? AND option_text = ? AND is_correct = ?", id, "B", true))
}

func TestAddQuestionForeignOrMissingQuiz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foreign := f.newQuiz(t, f.otherCourse.ID, "Theirs")
	q := NewQuestion{Text: "Q", Points: 1, Answer: TrueFalse{Correct: true}}

	q.QuizID = foreign
	_, err := f.svc.AddQuestion(ctx, f.instructor.ID, q)
	assert.True(t, apperr.Is(err, apperr.KindOwnership))

	q.QuizID = foreign + 50
	_, err = f.svc.AddQuestion(ctx, f.instructor.ID, q)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = NewBuilder(f.db).Add(ctx, q)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Zero(t, f.total(t, &models.Question{}))
}

func TestAddQuestionRollsBackOnOptionFailure(t *testing.T) {
	f := newFixture(t)
	quizID := f.newQuiz(t, f.course.ID, "Fragile")
	failNth(t, f.db, "quiz_options", 2)

	_, err := f.svc.AddQuestion(context.Background(), f.instructor.ID, NewQuestion{
		QuizID: quizID, Text: "Capital of France?", Points: 1,
		Answer: MultipleChoice{Options: []string{"Paris", "Lyon", "Nice", "Lille"}, CorrectIndex: 0},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.ErrorIs(t, err, errInjected)
	assert.Zero(t, f.total(t, &models.Question{}))
	assert.Zero(t, f.total(t, &models.Option{}))
	assert.Empty(t, f.notes.types())
}

func TestAnswerForm(t *testing.T) {
	one, yes := 1, true

	a, err := AnswerForm{QuestionType: models.QuestionMultipleChoice, Options: []string{"x", "y"}, CorrectOption: &one}.Answer()
	require.NoError(t, err)
	assert.Equal(t, MultipleChoice{Options: []string{"x", "y"}, CorrectIndex: 1}, a)

	a, err = AnswerForm{QuestionType: models.QuestionTrueFalse, CorrectAnswer: &yes}.Answer()
	require.NoError(t, err)
	assert.Equal(t, TrueFalse{Correct: true}, a)

	a, err = AnswerForm{QuestionType: models.QuestionEssay, ReferenceAnswer: "ref"}.Answer()
	require.NoError(t, err)
	assert.Equal(t, Essay{ReferenceAnswer: "ref"}, a)

	for _, form := range []AnswerForm{
		{QuestionType: models.QuestionMultipleChoice, Options: []string{"x", "y"}},
		{QuestionType: models.QuestionTrueFalse},
		{QuestionType: "matching"},
	} {
		_, err := form.Answer()
		assert.True(t, apperr.Is(err, apperr.KindValidation), string(form.QuestionType))
	}
}
