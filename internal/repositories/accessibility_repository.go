package repositories

import (
	"context"

	"gorm.io/gorm"

	"blogpress/internal/models/db_models"
)

type AccessibilityRepository interface {
	Create(ctx context.Context, entry *db_models.AccessibilityLog) error
}

type accessibilityRepository struct {
	db *gorm.DB
}

func NewAccessibilityRepository(db *gorm.DB) AccessibilityRepository {
	return &accessibilityRepository{db: db}
}

func (r *accessibilityRepository) Create(ctx context.Context, entry *db_models.AccessibilityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
