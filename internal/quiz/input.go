// backend/internal/quiz/input.go
package quiz

import (
	"errors"
	"strings"

	"elearn-quiz/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QuizInput is the editable part of a quiz. IsActive is ignored on create:
// new quizzes start inactive until the instructor turns them on.
type QuizInput struct {
	CourseID         uint   `json:"course_id" validate:"required"`
	Title            string `json:"title" validate:"required,max=255"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit" validate:"min=1"`
	PassingScorePct  int    `json:"passing_score" validate:"min=0,max=100"`
	IsRandomized     bool   `json:"is_randomized"`
	IsActive         bool   `json:"is_active"`
}

var quizFieldMessages = map[string]string{
	"CourseID":         "Invalid course selected",
	"Title":            "Quiz title is required",
	"TimeLimitMinutes": "Time limit must be at least 1 minute",
	"PassingScorePct":  "Passing score must be between 0 and 100",
}

func (in *QuizInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		return validationError(err, quizFieldMessages)
	}
	return nil
}

// validationError folds validator output into one apperr, one message per
// failing field.
func validationError(err error, messages map[string]string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation("%s", err.Error())
	}
	var out []string
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.StructField()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, msg)
	}
	return apperr.Validation("%s", strings.Join(out, "; "))
}
