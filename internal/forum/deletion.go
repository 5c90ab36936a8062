// backend/internal/forum/deletion.go
package forum

import (
	"context"
	"errors"
	"fmt"
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

type teardownStep struct {
	table string
	run   func(tx *gorm.DB, topicID uint) *gorm.DB
}

// topicTeardown removes a topic's rows children first. Attachments are
// reached both directly and through the topic's replies.
var topicTeardown = []teardownStep{
	{"forum_attachments", func(tx *gorm.DB, topicID uint) *gorm.DB {
		replies := tx.Model(&models.ForumReply{}).Select("reply_id").Where("topic_id = ?", topicID)
		return tx.Where("topic_id = ? OR reply_id IN (?)", topicID, replies).Delete(&models.ForumAttachment{})
	}},
	{"forum_reactions", func(tx *gorm.DB, topicID uint) *gorm.DB {
		return tx.Where("topic_id = ?", topicID).Delete(&models.ForumReaction{})
	}},
	{"forum_replies", func(tx *gorm.DB, topicID uint) *gorm.DB {
		return tx.Where("topic_id = ?", topicID).Delete(&models.ForumReply{})
	}},
	{"forum_topics", func(tx *gorm.DB, topicID uint) *gorm.DB {
		return tx.Where("topic_id = ?", topicID).Delete(&models.ForumTopic{})
	}},
}

// DeleteReport counts the rows removed per table.
type DeleteReport map[string]int64

var errTopicVanished = errors.New("topic row already deleted")

type TopicDeleter struct {
	db *gorm.DB
}

func NewTopicDeleter(db *gorm.DB) *TopicDeleter {
	return &TopicDeleter{db: db}
}

// Delete runs topicTeardown in one transaction. Permission checks are the
// caller's job.
func (d *TopicDeleter) Delete(ctx context.Context, topicID uint) (DeleteReport, error) {
	report := DeleteReport{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range topicTeardown {
			res := step.run(tx, topicID)
			if res.Error != nil {
				return fmt.Errorf("delete %s: %w", step.table, res.Error)
			}
			report[step.table] = res.RowsAffected
		}
		if report["forum_topics"] != 1 {
			return errTopicVanished
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Deleted topic %d: %d replies, %d attachments, %d reactions",
		topicID, report["forum_replies"], report["forum_attachments"], report["forum_reactions"])
	return report, nil
}
