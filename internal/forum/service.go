// backend/internal/forum/service.go
package forum

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/auth"
	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

const (
	defaultTopicLimit = 20
	maxTopicLimit     = 100

	msgTopicNotFound = "Topic not found"
	msgReplyNotFound = "Reply not found"
)

// topicActions maps a moderation action to the status it sets.
var topicActions = map[string]string{
	"close": models.TopicStatusClosed,
	"open":  models.TopicStatusOpen,
	"pin":   models.TopicStatusPinned,
	"unpin": models.TopicStatusOpen,
}

var reactionKinds = map[string]bool{"like": true, "helpful": true}

type Service struct {
	repo    *Repository
	deleter *TopicDeleter
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		repo:    NewRepository(db),
		deleter: NewTopicDeleter(db),
	}
}

// canModerate: authors manage their own posts, instructors manage all.
func canModerate(actor auth.Identity, authorID uint) bool {
	return actor.UserID == authorID || actor.Role == models.RoleInstructor
}

func (s *Service) ListCategories(ctx context.Context) ([]models.ForumCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Persistence("Error loading categories", err)
	}
	return categories, nil
}

// ListTopics returns at most limit topics; zero means 20.
func (s *Service) ListTopics(ctx context.Context, categoryID uint, limit int) ([]models.TopicSummary, error) {
	if limit <= 0 {
		limit = defaultTopicLimit
	}
	if limit > maxTopicLimit {
		limit = maxTopicLimit
	}
	topics, err := s.repo.ListTopics(ctx, categoryID, limit)
	if err != nil {
		return nil, apperr.Persistence("Error loading topics", err)
	}
	return topics, nil
}

func (s *Service) GetTopic(ctx context.Context, topicID uint) (*models.TopicView, error) {
	view, err := s.repo.GetTopicView(ctx, topicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgTopicNotFound)
	}
	if err != nil {
		log.Printf("Error getting topic %d: %v", topicID, err)
		return nil, apperr.Persistence("Error loading topic", err)
	}
	return view, nil
}

func (s *Service) CreateTopic(ctx context.Context, actor auth.Identity, in TopicInput) (*models.ForumTopic, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now()
	topic := &models.ForumTopic{
		CategoryID:  in.CategoryID,
		CourseID:    in.CourseID,
		UserID:      actor.UserID,
		Title:       in.Title,
		Content:     in.Content,
		Status:      models.TopicStatusOpen,
		LastReplyAt: &now,
	}
	if err := s.repo.CreateTopic(ctx, topic, attachmentRows(actor.UserID, in.Attachments)); err != nil {
		return nil, apperr.Persistence("Error creating topic", err)
	}
	return topic, nil
}

// UpdateTopic edits category, course, title and content. Attachments in in
// are ignored.
func (s *Service) UpdateTopic(ctx context.Context, actor auth.Identity, topicID uint, in TopicInput) (*models.ForumTopic, error) {
	in.Attachments = nil
	if err := in.normalize(); err != nil {
		return nil, err
	}
	topic, err := s.topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, topic.UserID) {
		return nil, apperr.Forbidden("You don't have permission to edit this topic.")
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	topic.CategoryID = in.CategoryID
	topic.CourseID = in.CourseID
	topic.Title = in.Title
	topic.Content = in.Content
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		log.Printf("Error updating topic %d: %v", topicID, err)
		return nil, apperr.Persistence("Failed to update topic", err)
	}
	return topic, nil
}

// ApplyTopicAction runs one of close, open, pin or unpin.
func (s *Service) ApplyTopicAction(ctx context.Context, actor auth.Identity, topicID uint, action string) (*models.ForumTopic, error) {
	status, ok := topicActions[action]
	if !ok {
		return nil, apperr.Validation("Invalid action")
	}
	topic, err := s.topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, topic.UserID) {
		return nil, apperr.Forbidden("You don't have permission to modify this topic")
	}
	if err := s.repo.SetTopicStatus(ctx, topicID, status); err != nil {
		log.Printf("Error setting topic %d to %s: %v", topicID, status, err)
		return nil, apperr.Persistence("Failed to perform action", err)
	}
	topic.Status = status
	return topic, nil
}

func (s *Service) DeleteTopic(ctx context.Context, actor auth.Identity, topicID uint) (DeleteReport, error) {
	topic, err := s.topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, topic.UserID) {
		return nil, apperr.Forbidden("You don't have permission to modify this topic")
	}
	report, err := s.deleter.Delete(ctx, topicID)
	if errors.Is(err, errTopicVanished) {
		return nil, apperr.NotFound(msgTopicNotFound)
	}
	if err != nil {
		log.Printf("Error deleting topic %d: %v", topicID, err)
		return nil, apperr.Persistence("Failed to delete topic", err)
	}
	return report, nil
}

func (s *Service) React(ctx context.Context, actor auth.Identity, topicID uint, reaction string) error {
	if !reactionKinds[reaction] {
		return apperr.Validation("Unknown reaction %q", reaction)
	}
	if _, err := s.topic(ctx, topicID); err != nil {
		return err
	}
	err := s.repo.AddReaction(ctx, &models.ForumReaction{TopicID: topicID, UserID: actor.UserID, Reaction: reaction})
	if err != nil {
		return apperr.Persistence("Error saving reaction", err)
	}
	return nil
}

func (s *Service) AddReply(ctx context.Context, actor auth.Identity, topicID uint, in ReplyInput) (*models.ForumReply, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	topic, err := s.repo.GetTopic(ctx, topicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Topic does not exist")
	}
	if err != nil {
		return nil, apperr.Persistence("Error loading topic", err)
	}
	if topic.Status == models.TopicStatusClosed {
		return nil, apperr.Conflict("This topic is closed and no longer accepts replies")
	}

	reply := &models.ForumReply{TopicID: topicID, UserID: actor.UserID, Content: in.Content}
	if err := s.repo.CreateReply(ctx, reply, attachmentRows(actor.UserID, in.Attachments)); err != nil {
		return nil, apperr.Persistence("Failed to post reply", err)
	}
	return reply, nil
}

func (s *Service) UpdateReply(ctx context.Context, actor auth.Identity, replyID uint, content string) (*models.ForumReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Reply content cannot be empty.")
	}
	reply, err := s.reply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, reply.UserID) {
		return nil, apperr.Forbidden("You don't have permission to edit this reply.")
	}
	if reply.Topic != nil && reply.Topic.Status == models.TopicStatusClosed {
		return nil, apperr.Conflict("This topic is closed and replies cannot be edited.")
	}

	reply.Content = content
	reply.Topic = nil
	if err := s.repo.UpdateReplyContent(ctx, reply); err != nil {
		log.Printf("Error updating reply %d: %v", replyID, err)
		return nil, apperr.Persistence("Failed to update reply.", err)
	}
	return reply, nil
}

func (s *Service) DeleteReply(ctx context.Context, actor auth.Identity, replyID uint) error {
	reply, err := s.reply(ctx, replyID)
	if err != nil {
		return err
	}
	if !canModerate(actor, reply.UserID) {
		return apperr.Forbidden("You don't have permission to delete this reply")
	}
	if err := s.repo.DeleteReply(ctx, reply); err != nil {
		log.Printf("Error deleting reply %d: %v", replyID, err)
		return apperr.Persistence("Failed to delete reply", err)
	}
	return nil
}

// MarkSolution is for instructors only, whoever wrote the reply.
func (s *Service) MarkSolution(ctx context.Context, actor auth.Identity, replyID uint) error {
	if actor.Role != models.RoleInstructor {
		return apperr.Forbidden("You don't have permission to mark solutions")
	}
	reply, err := s.reply(ctx, replyID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkSolution(ctx, reply.TopicID, reply.ID); err != nil {
		log.Printf("Error marking reply %d as solution: %v", replyID, err)
		return apperr.Persistence("Failed to mark solution", err)
	}
	return nil
}

func (s *Service) topic(ctx context.Context, topicID uint) (*models.ForumTopic, error) {
	topic, err := s.repo.GetTopic(ctx, topicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgTopicNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("Error loading topic", err)
	}
	return topic, nil
}

func (s *Service) reply(ctx context.Context, replyID uint) (*models.ForumReply, error) {
	reply, err := s.repo.GetReply(ctx, replyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgReplyNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("Error loading reply", err)
	}
	return reply, nil
}

func (s *Service) checkReferences(ctx context.Context, in TopicInput) error {
	ok, err := s.repo.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return apperr.Persistence("Error checking category", err)
	}
	if !ok {
		return apperr.Validation("Please select a category")
	}
	if in.CourseID == nil {
		return nil
	}
	ok, err = s.repo.CourseExists(ctx, *in.CourseID)
	if err != nil {
		return apperr.Persistence("Error checking course", err)
	}
	if !ok {
		return apperr.Validation("Invalid course selected")
	}
	return nil
}

func attachmentRows(userID uint, in []AttachmentInput) []models.ForumAttachment {
	rows := make([]models.ForumAttachment, len(in))
	for i, a := range in {
		rows[i] = models.ForumAttachment{
			UserID:           userID,
			Filename:         a.Filename,
			OriginalFilename: a.OriginalFilename,
			Filesize:         a.Filesize,
			FileType:         a.FileType,
		}
	}
	return rows
}
