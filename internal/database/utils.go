package database

import (
	"context"
	"errors"

	"docindex/internal/database/model"

	"gorm.io/gorm"
)

// EnsureDefaultUser finds or creates the default user and returns its ID.
// Used while the API runs without authentication.
func EnsureDefaultUser(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("nil db")
	}
	const defaultEmail = "default@local"
	var u model.User
	err := db.Where("email = ?", defaultEmail).First(&u).Error
	if err == nil {
		return u.ID, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		newUser := model.User{Email: defaultEmail}
		if e := db.Create(&newUser).Error; e != nil {
			return 0, e
		}
		return newUser.ID, nil
	}
	return 0, err
}

// CreateEntity creates a record for the provided entity type.
func CreateEntity[T any](ctx context.Context, entity *T) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetEntityByID returns a single record of type T by its primary key id.
func GetEntityByID[T any, ID comparable](ctx context.Context, id ID) (*T, error) {
	db, err := GetDB()
	if err != nil {
		return nil, err
	}
	var out T
	if err := db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// WithTx allows running a function within a transaction using the shared DB.
func WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(fn)
}
