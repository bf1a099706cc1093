package services

import (
	"context"

	resp "blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/utils"
)

const (
	topRatedLimit      = 5
	topRatedMinRatings = 3
)

type DashboardService interface {
	BuildDashboard(ctx context.Context) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) BuildDashboard(ctx context.Context) (*resp.DashboardReport, error) {
	// ---------- Core counts ----------
	posts, err := s.repo.CountPosts(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("count posts", err)
	}
	accounts, err := s.repo.CountAccounts(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("count accounts", err)
	}
	contacts, err := s.repo.CountContactMessages(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("count contact messages", err)
	}

	// ---------- Feedback ----------
	feedbackRows, err := s.repo.FeedbackByStatus(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("feedback by status", err)
	}
	byStatus, totalFeedback := countsByStatus(feedbackRows)

	avg, err := s.repo.AverageRating(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("average rating", err)
	}

	ratedRows, err := s.repo.TopRatedPosts(ctx, topRatedMinRatings, topRatedLimit)
	if err != nil {
		return nil, utils.NewPersistenceError("top rated posts", err)
	}
	topRated := make([]resp.RatedPost, 0, len(ratedRows))
	for _, r := range ratedRows {
		topRated = append(topRated, resp.RatedPost{
			PostID:        r.PostID,
			Title:         r.Title,
			AverageRating: r.AverageRating,
			Ratings:       r.Ratings,
		})
	}

	// ---------- Outbox ----------
	outboxRows, err := s.repo.OutboxByStatus(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("outbox by status", err)
	}
	outbox, _ := countsByStatus(outboxRows)

	return &resp.DashboardReport{
		Posts:            posts,
		Accounts:         accounts,
		Feedback:         totalFeedback,
		FeedbackByStatus: byStatus,
		AverageRating:    avg,
		ContactMessages:  contacts,
		Outbox:           outbox,
		TopRatedPosts:    topRated,
	}, nil
}

func countsByStatus(rows []repositories.StatusCount) (map[string]int64, int64) {
	out := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		out[r.Status] = r.Count
		total += r.Count
	}
	return out, total
}
