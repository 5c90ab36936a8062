// backend/internal/quiz/question.go
package quiz

import (
	"strings"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"
)

// Answer is the type-specific half of a question. Exactly one of
// MultipleChoice, TrueFalse or Essay.
type Answer interface {
	Type() models.QuestionType
	normalize() (Answer, error)
	// rows translates the answer to what is stored: the reference answer on
	// the question row and the option rows.
	rows(questionID uint) (*string, []models.Option)
}

type MultipleChoice struct {
	Options      []string
	CorrectIndex int
}

type TrueFalse struct {
	Correct bool
}

type Essay struct {
	ReferenceAnswer string
}

func (MultipleChoice) Type() models.QuestionType { return models.QuestionMultipleChoice }
func (TrueFalse) Type() models.QuestionType      { return models.QuestionTrueFalse }
func (Essay) Type() models.QuestionType          { return models.QuestionEssay }

// normalize drops blank options and re-points CorrectIndex at the kept
// slice. The two-option minimum is checked after dropping.
func (mc MultipleChoice) normalize() (Answer, error) {
	out := MultipleChoice{CorrectIndex: -1}
	for i, text := range mc.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if i == mc.CorrectIndex {
			out.CorrectIndex = len(out.Options)
		}
		out.Options = append(out.Options, text)
	}
	if len(out.Options) < 2 {
		return nil, apperr.Validation("Multiple choice questions need at least 2 non-empty options")
	}
	if out.CorrectIndex < 0 {
		return nil, apperr.Validation("Exactly one non-empty option must be marked correct")
	}
	return out, nil
}

func (mc MultipleChoice) rows(questionID uint) (*string, []models.Option) {
	opts := make([]models.Option, len(mc.Options))
	for i, text := range mc.Options {
		opts[i] = models.Option{QuestionID: questionID, OptionText: text, IsCorrect: i == mc.CorrectIndex}
	}
	return nil, opts
}

func (tf TrueFalse) normalize() (Answer, error) { return tf, nil }

func (tf TrueFalse) rows(questionID uint) (*string, []models.Option) {
	return nil, []models.Option{
		{QuestionID: questionID, OptionText: "True", IsCorrect: tf.Correct},
		{QuestionID: questionID, OptionText: "False", IsCorrect: !tf.Correct},
	}
}

func (e Essay) normalize() (Answer, error) {
	return Essay{ReferenceAnswer: strings.TrimSpace(e.ReferenceAnswer)}, nil
}

func (e Essay) rows(uint) (*string, []models.Option) {
	if e.ReferenceAnswer == "" {
		return nil, nil
	}
	ref := e.ReferenceAnswer
	return &ref, nil
}

// NewQuestion is the builder input.
type NewQuestion struct {
	QuizID uint
	Text   string
	Points int
	Answer Answer
}

func (q NewQuestion) normalize() (NewQuestion, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return q, apperr.Validation("Question text is required")
	}
	if q.Points < 1 {
		return q, apperr.Validation("Points must be at least 1")
	}
	if q.Answer == nil {
		return q, apperr.Validation("Question type is required")
	}
	answer, err := q.Answer.normalize()
	if err != nil {
		return q, err
	}
	q.Answer = answer
	return q, nil
}

// AnswerForm is the flat form/JSON shape of an answer as submitted by the
// question editor.
type AnswerForm struct {
	QuestionType    models.QuestionType `json:"question_type"`
	Options         []string            `json:"options"`
	CorrectOption   *int                `json:"correct_option"`
	CorrectAnswer   *bool               `json:"correct_answer"`
	ReferenceAnswer string              `json:"reference_answer"`
}

// Answer builds the typed answer for the submitted question type.
func (f AnswerForm) Answer() (Answer, error) {
	switch f.QuestionType {
	case models.QuestionMultipleChoice:
		if f.CorrectOption == nil {
			return nil, apperr.Validation("Exactly one non-empty option must be marked correct")
		}
		return MultipleChoice{Options: f.Options, CorrectIndex: *f.CorrectOption}, nil
	case models.QuestionTrueFalse:
		if f.CorrectAnswer == nil {
			return nil, apperr.Validation("Select whether True or False is correct")
		}
		return TrueFalse{Correct: *f.CorrectAnswer}, nil
	case models.QuestionEssay:
		return Essay{ReferenceAnswer: f.ReferenceAnswer}, nil
	}
	return nil, apperr.Validation("Unknown question type %q", f.QuestionType)
}
