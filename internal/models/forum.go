// backend/internal/models/forum.go
package models

import "time"

const (
	TopicStatusOpen   = "open"
	TopicStatusClosed = "closed"
	TopicStatusPinned = "pinned"
)

type ForumCategory struct {
	ID          uint   `json:"category_id" gorm:"primaryKey;column:category_id"`
	Name        string `json:"category_name" gorm:"column:category_name;not null"`
	Description string `json:"category_description" gorm:"column:category_description"`
}

func (ForumCategory) TableName() string {
	return "forum_categories"
}

type ForumTopic struct {
	ID              uint           `json:"topic_id" gorm:"primaryKey;column:topic_id"`
	CategoryID      uint           `json:"category_id" gorm:"not null;index"`
	CourseID        *uint          `json:"course_id"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	Title           string         `json:"title" gorm:"type:varchar(100);not null"`
	Content         string         `json:"content" gorm:"not null"`
	Status          string         `json:"status" gorm:"type:varchar(20);not null;default:open"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	LastReplyAt     *time.Time     `json:"last_reply_at"`
	LastReplyUserID *uint          `json:"last_reply_user_id"`
	Category        *ForumCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID"`
	Course          *Course        `json:"-" gorm:"foreignKey:CourseID;references:ID"`
}

func (ForumTopic) TableName() string {
	return "forum_topics"
}

type ForumReply struct {
	ID         uint        `json:"reply_id" gorm:"primaryKey;column:reply_id"`
	TopicID    uint        `json:"topic_id" gorm:"not null;index"`
	UserID     uint        `json:"user_id" gorm:"not null;index"`
	Content    string      `json:"content" gorm:"not null"`
	IsSolution bool        `json:"is_solution" gorm:"not null;default:false"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Topic      *ForumTopic `json:"-" gorm:"foreignKey:TopicID;references:ID"`
}

func (ForumReply) TableName() string {
	return "forum_replies"
}

// ForumAttachment is the metadata of a stored upload. Exactly one of TopicID
// and ReplyID is set.
type ForumAttachment struct {
	ID               uint        `json:"attachment_id" gorm:"primaryKey;column:attachment_id"`
	TopicID          *uint       `json:"topic_id" gorm:"index"`
	ReplyID          *uint       `json:"reply_id" gorm:"index"`
	UserID           uint        `json:"user_id" gorm:"not null"`
	Filename         string      `json:"filename" gorm:"not null"`
	OriginalFilename string      `json:"original_filename" gorm:"not null"`
	Filesize         int64       `json:"filesize"`
	FileType         string      `json:"file_type"`
	UploadedAt       time.Time   `json:"uploaded_at" gorm:"autoCreateTime"`
	Topic            *ForumTopic `json:"-" gorm:"foreignKey:TopicID;references:ID"`
	Reply            *ForumReply `json:"-" gorm:"foreignKey:ReplyID;references:ID"`
}

func (ForumAttachment) TableName() string {
	return "forum_attachments"
}

type ForumReaction struct {
	ID        uint        `json:"reaction_id" gorm:"primaryKey;column:reaction_id"`
	TopicID   uint        `json:"topic_id" gorm:"not null;uniqueIndex:idx_reaction_topic_user_kind"`
	UserID    uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_reaction_topic_user_kind"`
	Reaction  string      `json:"reaction" gorm:"type:varchar(20);not null;uniqueIndex:idx_reaction_topic_user_kind"`
	CreatedAt time.Time   `json:"created_at"`
	Topic     *ForumTopic `json:"-" gorm:"foreignKey:TopicID;references:ID"`
}

func (ForumReaction) TableName() string {
	return "forum_reactions"
}
