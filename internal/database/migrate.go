package database

import (
	"docindex/internal/database/model"
)

// Migrate creates or updates the registry tables. Called once at server
// start; no-op when the schema is already current.
func Migrate() error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.Chunk{},
		&model.ImageAsset{},
		&model.Message{},
	)
}
