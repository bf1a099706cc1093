package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogpress/internal/models/db_models"
)

type FeedbackRepositoryInterface interface {
	CreateFeedback(ctx context.Context, feedback *db_models.Feedback) error
	ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, int64, error)
	ListFeedbackForPost(ctx context.Context, postID uuid.UUID) ([]db_models.Feedback, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *db_models.Feedback) error {
	return r.db.WithContext(ctx).Omit("Post").Create(feedback).Error
}

// ListFeedback pages through all feedback, newest first, with post titles.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []db_models.Feedback
	err := r.db.WithContext(ctx).
		Preload("Post", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("submitted_at DESC").
		Find(&feedbacks).Error
	return feedbacks, total, err
}

func (r *FeedbackRepository) ListFeedbackForPost(ctx context.Context, postID uuid.UUID) ([]db_models.Feedback, error) {
	var feedbacks []db_models.Feedback
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("submitted_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Feedback{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}
