package repositories

import (
	"context"

	"gorm.io/gorm"

	dbm "blogpress/internal/models/db_models"
)

type DashboardRepository interface {
	CountPosts(ctx context.Context) (int64, error)
	CountAccounts(ctx context.Context) (int64, error)
	CountContactMessages(ctx context.Context) (int64, error)
	FeedbackByStatus(ctx context.Context) ([]StatusCount, error)
	AverageRating(ctx context.Context) (float64, error)
	OutboxByStatus(ctx context.Context) ([]StatusCount, error)
	TopRatedPosts(ctx context.Context, minRatings int, limit int) ([]RatedPostRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

type RatedPostRow struct {
	PostID        string  `gorm:"column:post_id"`
	Title         string  `gorm:"column:title"`
	AverageRating float64 `gorm:"column:average_rating"`
	Ratings       int64   `gorm:"column:ratings"`
}

// ---------- Counts ----------
func (r *dashboardRepository) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Post{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.ContactMessage{}).Count(&n).Error
	return n, err
}

// ---------- Breakdowns ----------
func (r *dashboardRepository) FeedbackByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Feedback{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&dbm.Feedback{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *dashboardRepository) OutboxByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.NotificationTask{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) TopRatedPosts(ctx context.Context, minRatings int, limit int) ([]RatedPostRow, error) {
	var rows []RatedPostRow
	err := r.db.WithContext(ctx).
		Table("feedback f").
		Select("f.post_id, p.title, AVG(f.rating) AS average_rating, COUNT(*) AS ratings").
		Joins("JOIN posts p ON p.id = f.post_id").
		Group("f.post_id, p.title").
		Having("COUNT(*) >= ?", minRatings).
		Order("average_rating DESC, ratings DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
