// backend/pkg/database/migrate.go
package database

import (
	"log"

	"elearn-quiz/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Certificate{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizAttempt{},
		&models.ForumCategory{},
		&models.ForumTopic{},
		&models.ForumReply{},
		&models.ForumAttachment{},
		&models.ForumReaction{},
	)
}

var defaultForumCategories = []models.ForumCategory{
	{Name: "General Discussion", Description: "General topics related to e-learning and courses"},
	{Name: "Technical Support", Description: "Get help with technical issues"},
	{Name: "Course Feedback", Description: "Share your feedback about courses"},
	{Name: "Study Groups", Description: "Find or create study groups for different courses"},
}

// SeedForumCategories inserts the default categories when the table is empty.
func SeedForumCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ForumCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	categories := make([]models.ForumCategory, len(defaultForumCategories))
	copy(categories, defaultForumCategories)
	if err := db.Create(&categories).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d forum categories", len(categories))
	return nil
}
