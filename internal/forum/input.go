// backend/internal/forum/input.go
package forum

import (
	"errors"
	"strings"

	"elearn-quiz/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Uploads larger than this are refused before their metadata is stored.
const maxAttachmentSize = 5 << 20

// AttachmentInput describes a file already stored by the upload layer.
type AttachmentInput struct {
	Filename         string `json:"filename" validate:"required"`
	OriginalFilename string `json:"original_filename" validate:"required"`
	Filesize         int64  `json:"filesize" validate:"min=0"`
	FileType         string `json:"file_type"`
}

type TopicInput struct {
	CategoryID  uint              `json:"category_id" validate:"required"`
	CourseID    *uint             `json:"course_id"`
	Title       string            `json:"title" validate:"required,min=5,max=100"`
	Content     string            `json:"content" validate:"required,min=10"`
	Attachments []AttachmentInput `json:"attachments" validate:"dive"`
}

type ReplyInput struct {
	Content     string            `json:"content" validate:"required"`
	Attachments []AttachmentInput `json:"attachments" validate:"dive"`
}

var fieldMessages = map[string]string{
	"CategoryID.required": "Please select a category",
	"Title.required":      "Title is required",
	"Title.min":           "Title must be at least 5 characters",
	"Title.max":           "Title must be less than 100 characters",
	"Content.required":    "Content is required",
	"Content.min":         "Content must be at least 10 characters",
}

func (in *TopicInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.CourseID != nil && *in.CourseID == 0 {
		in.CourseID = nil
	}
	var msgs []string
	if err := validate.Struct(in); err != nil {
		msgs = messages(err, fieldMessages)
	}
	msgs = append(msgs, attachmentProblems(in.Attachments)...)
	if len(msgs) > 0 {
		return apperr.Validation("%s", strings.Join(msgs, "; "))
	}
	return nil
}

func (in *ReplyInput) normalize() error {
	in.Content = strings.TrimSpace(in.Content)
	var msgs []string
	if err := validate.Struct(in); err != nil {
		msgs = messages(err, map[string]string{"Content.required": "Reply content is required"})
	}
	msgs = append(msgs, attachmentProblems(in.Attachments)...)
	if len(msgs) > 0 {
		return apperr.Validation("%s", strings.Join(msgs, "; "))
	}
	return nil
}

func messages(err error, known map[string]string) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	var out []string
	seen := map[string]bool{}
	for _, fe := range fieldErrs {
		msg, ok := known[fe.StructField()+"."+fe.Tag()]
		if !ok {
			if strings.Contains(fe.Namespace(), "Attachments[") {
				msg = "Attachment " + fe.Field() + " is required"
			} else {
				msg = fe.Field() + " is invalid"
			}
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return out
}

func attachmentProblems(attachments []AttachmentInput) []string {
	var out []string
	for _, a := range attachments {
		if a.Filesize > maxAttachmentSize {
			out = append(out, "File "+a.OriginalFilename+" exceeds maximum size (5MB)")
		}
	}
	return out
}
