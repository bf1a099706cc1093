package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogpress/internal/models/db_models"
)

type NotificationRepository interface {
	Enqueue(ctx context.Context, task *db_models.NotificationTask) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]db_models.NotificationTask, error)
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, statusCode int, at time.Time) error
	MarkAttemptFailed(ctx context.Context, id uuid.UUID, attempt FailedAttempt) error
	ReleaseStale(ctx context.Context, claimedBefore time.Time) (int64, error)
	Requeue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.NotificationTask, error)
	List(ctx context.Context, status string, page, pageSize int) ([]db_models.NotificationTask, int64, error)
}

// FailedAttempt is what the dispatcher records after an unsuccessful delivery.
type FailedAttempt struct {
	Attempts      int
	Status        db_models.NotificationStatus
	LastError     string
	StatusCode    int
	NextAttemptAt time.Time
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Enqueue(ctx context.Context, task *db_models.NotificationTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *notificationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]db_models.NotificationTask, error) {
	var tasks []db_models.NotificationTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", db_models.NotificationPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// Claim moves a task from pending to processing. It reports false when
// another dispatcher got there first.
func (r *notificationRepository) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.NotificationTask{}).
		Where("id = ? AND status = ?", id, db_models.NotificationPending).
		Updates(map[string]interface{}{
			"status":     db_models.NotificationProcessing,
			"updated_at": now,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID, statusCode int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.NotificationTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           db_models.NotificationDelivered,
			"attempts":         gorm.Expr("attempts + 1"),
			"last_status_code": statusCode,
			"last_error":       "",
			"delivered_at":     at,
			"updated_at":       at,
		}).Error
}

func (r *notificationRepository) MarkAttemptFailed(ctx context.Context, id uuid.UUID, attempt FailedAttempt) error {
	return r.db.WithContext(ctx).
		Model(&db_models.NotificationTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           attempt.Status,
			"attempts":         attempt.Attempts,
			"last_error":       attempt.LastError,
			"last_status_code": attempt.StatusCode,
			"next_attempt_at":  attempt.NextAttemptAt,
		}).Error
}

// ReleaseStale returns tasks left in processing by a crashed dispatcher.
func (r *notificationRepository) ReleaseStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.NotificationTask{}).
		Where("status = ? AND updated_at < ?", db_models.NotificationProcessing, claimedBefore).
		Update("status", db_models.NotificationPending)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Requeue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.NotificationTask{}).
		Where("id = ? AND status = ?", id, db_models.NotificationFailed).
		Updates(map[string]interface{}{
			"status":          db_models.NotificationPending,
			"attempts":        0,
			"next_attempt_at": now,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.NotificationTask, error) {
	var task db_models.NotificationTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *notificationRepository) List(ctx context.Context, status string, page, pageSize int) ([]db_models.NotificationTask, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", status)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.NotificationTask{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []db_models.NotificationTask
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&tasks).Error
	return tasks, total, err
}
