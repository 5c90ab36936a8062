// backend/pkg/database/sqlite.go
package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens an embedded database at path with foreign keys enforced.
// Use ":memory:" for a throwaway database; the pool is pinned to one
// connection so every statement sees the same in-memory schema.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
