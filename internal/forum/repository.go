// backend/internal/forum/repository.go
package forum

import (
	"context"
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.ForumCategory, error) {
	categories := []models.ForumCategory{}
	err := r.db.WithContext(ctx).Order("category_id").Find(&categories).Error
	return categories, err
}

func (r *Repository) CategoryExists(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ForumCategory{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CourseExists(ctx context.Context, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).Where("course_id = ?", courseID).Count(&count).Error
	return count > 0, err
}

// ListTopics lists pinned topics first, then newest first. categoryID 0
// means every category.
func (r *Repository) ListTopics(ctx context.Context, categoryID uint, limit int) ([]models.TopicSummary, error) {
	topics := []models.TopicSummary{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.topic_id, t.category_id, c.category_name, t.course_id, t.user_id,
			u.username, t.title, t.status, t.created_at, t.last_reply_at,
			(SELECT COUNT(*) FROM forum_replies WHERE topic_id = t.topic_id) AS reply_count
		FROM forum_topics t
		JOIN forum_categories c ON t.category_id = c.category_id
		LEFT JOIN users u ON t.user_id = u.user_id
		WHERE ? = 0 OR t.category_id = ?
		ORDER BY CASE WHEN t.status = 'pinned' THEN 0 ELSE 1 END, t.created_at DESC, t.topic_id DESC
		LIMIT ?
	`, categoryID, categoryID, limit).Scan(&topics).Error
	if err != nil {
		log.Printf("Error listing topics: %v", err)
		return nil, err
	}
	return topics, nil
}

func (r *Repository) GetTopic(ctx context.Context, topicID uint) (*models.ForumTopic, error) {
	var topic models.ForumTopic
	if err := r.db.WithContext(ctx).First(&topic, "topic_id = ?", topicID).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetTopicView loads the topic page: the topic, its replies oldest first,
// attachments of both and reaction counts.
func (r *Repository) GetTopicView(ctx context.Context, topicID uint) (*models.TopicView, error) {
	db := r.db.WithContext(ctx)

	var views []models.TopicView
	err := db.Raw(`
		SELECT t.topic_id, t.category_id, c.category_name, t.course_id, t.user_id,
			u.username, t.title, t.content, t.status, t.created_at, t.updated_at
		FROM forum_topics t
		LEFT JOIN forum_categories c ON t.category_id = c.category_id
		LEFT JOIN users u ON t.user_id = u.user_id
		WHERE t.topic_id = ?
	`, topicID).Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	view := &views[0]

	view.Attachments = []models.ForumAttachment{}
	if err := db.Where("topic_id = ?", topicID).Order("attachment_id").Find(&view.Attachments).Error; err != nil {
		return nil, err
	}

	view.Replies = []models.ReplyView{}
	err = db.Raw(`
		SELECT r.reply_id, r.topic_id, r.user_id, u.username, r.content,
			r.is_solution, r.created_at, r.updated_at
		FROM forum_replies r
		LEFT JOIN users u ON r.user_id = u.user_id
		WHERE r.topic_id = ?
		ORDER BY r.created_at ASC, r.reply_id ASC
	`, topicID).Scan(&view.Replies).Error
	if err != nil {
		return nil, err
	}
	if len(view.Replies) > 0 {
		ids := make([]uint, len(view.Replies))
		for i, reply := range view.Replies {
			ids[i] = reply.ID
		}
		var attachments []models.ForumAttachment
		if err := db.Where("reply_id IN ?", ids).Order("attachment_id").Find(&attachments).Error; err != nil {
			return nil, err
		}
		byReply := map[uint][]models.ForumAttachment{}
		for _, a := range attachments {
			byReply[*a.ReplyID] = append(byReply[*a.ReplyID], a)
		}
		for i := range view.Replies {
			view.Replies[i].Attachments = byReply[view.Replies[i].ID]
			if view.Replies[i].Attachments == nil {
				view.Replies[i].Attachments = []models.ForumAttachment{}
			}
		}
	}

	var counts []struct {
		Reaction string
		Total    int64
	}
	err = db.Model(&models.ForumReaction{}).
		Select("reaction, COUNT(*) AS total").
		Where("topic_id = ?", topicID).
		Group("reaction").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	view.Reactions = map[string]int64{}
	for _, c := range counts {
		view.Reactions[c.Reaction] = c.Total
	}
	return view, nil
}

func (r *Repository) GetReply(ctx context.Context, replyID uint) (*models.ForumReply, error) {
	var reply models.ForumReply
	err := r.db.WithContext(ctx).Preload("Topic").First(&reply, "reply_id = ?", replyID).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// CreateTopic stores the topic and its attachment metadata together.
func (r *Repository) CreateTopic(ctx context.Context, topic *models.ForumTopic, attachments []models.ForumAttachment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Course").Create(topic).Error; err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].TopicID = &topic.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating topic: %v", err)
		return err
	}
	log.Printf("Created topic with ID: %d", topic.ID)
	return nil
}

func (r *Repository) UpdateTopic(ctx context.Context, topic *models.ForumTopic) error {
	return r.db.WithContext(ctx).Model(topic).
		Select("category_id", "course_id", "title", "content", "updated_at").
		Updates(topic).Error
}

func (r *Repository) SetTopicStatus(ctx context.Context, topicID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.ForumTopic{}).
		Where("topic_id = ?", topicID).
		Update("status", status).Error
}

// CreateReply stores the reply with its attachments and moves the topic's
// last reply marker to it.
func (r *Repository) CreateReply(ctx context.Context, reply *models.ForumReply, attachments []models.ForumAttachment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Topic").Create(reply).Error; err != nil {
			return err
		}
		err := tx.Model(&models.ForumTopic{}).
			Where("topic_id = ?", reply.TopicID).
			UpdateColumns(map[string]interface{}{
				"last_reply_at":      reply.CreatedAt,
				"last_reply_user_id": reply.UserID,
			}).Error
		if err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].ReplyID = &reply.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error adding reply to topic %d: %v", reply.TopicID, err)
		return err
	}
	return nil
}

func (r *Repository) UpdateReplyContent(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Model(reply).
		Select("content", "updated_at").
		Updates(reply).Error
}

// DeleteReply removes the reply and its attachments, then points the topic's
// last reply marker at the newest remaining reply, or clears it.
func (r *Repository) DeleteReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", reply.ID).Delete(&models.ForumAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reply_id = ?", reply.ID).Delete(&models.ForumReply{}).Error; err != nil {
			return err
		}

		var latest []models.ForumReply
		err := tx.Where("topic_id = ?", reply.TopicID).
			Order("created_at DESC, reply_id DESC").
			Limit(1).
			Find(&latest).Error
		if err != nil {
			return err
		}
		marker := map[string]interface{}{"last_reply_at": nil, "last_reply_user_id": nil}
		if len(latest) == 1 {
			marker = map[string]interface{}{
				"last_reply_at":      latest[0].CreatedAt,
				"last_reply_user_id": latest[0].UserID,
			}
		}
		return tx.Model(&models.ForumTopic{}).Where("topic_id = ?", reply.TopicID).UpdateColumns(marker).Error
	})
}

// MarkSolution makes replyID the only solution of its topic.
func (r *Repository) MarkSolution(ctx context.Context, topicID, replyID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.ForumReply{}).
			Where("topic_id = ? AND is_solution = ?", topicID, true).
			Update("is_solution", false).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.ForumReply{}).
			Where("reply_id = ?", replyID).
			Update("is_solution", true).Error
	})
}

// AddReaction is idempotent per user, topic and reaction.
func (r *Repository) AddReaction(ctx context.Context, reaction *models.ForumReaction) error {
	return r.db.WithContext(ctx).
		Where(models.ForumReaction{TopicID: reaction.TopicID, UserID: reaction.UserID, Reaction: reaction.Reaction}).
		FirstOrCreate(reaction).Error
}
