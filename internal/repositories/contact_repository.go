package repositories

import (
	"context"

	"gorm.io/gorm"

	"blogpress/internal/models/db_models"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *db_models.ContactMessage) error
	List(ctx context.Context, page, pageSize int) ([]db_models.ContactMessage, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *db_models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *contactRepository) List(ctx context.Context, page, pageSize int) ([]db_models.ContactMessage, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []db_models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("sent_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&msgs).Error
	return msgs, total, err
}
