package database

import (
	"testing"

	"elearn-quiz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesTables(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "courses", "enrollments", "certificates", "quizzes", "quiz_questions", "quiz_options", "quiz_attempts",
		"forum_categories", "forum_topics", "forum_replies", "forum_attachments", "forum_reactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	err = db.Create(&models.Question{QuizID: 999, QuestionText: "orphan", QuestionType: models.QuestionEssay, Points: 1}).Error
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{Host: "db", Port: "5433", User: "quiz", Password: "secret", DBName: "elearn"}
	assert.Equal(t, "host=db user=quiz password=secret dbname=elearn port=5433 sslmode=disable TimeZone=UTC", c.DSN())
}

func TestSeedForumCategoriesOnce(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedForumCategories(db))
	require.NoError(t, SeedForumCategories(db))

	var names []string
	require.NoError(t, db.Model(&models.ForumCategory{}).Order("category_id").Pluck("category_name", &names).Error)
	assert.Equal(t, []string{"General Discussion", "Technical Support", "Course Feedback", "Study Groups"}, names)
}
