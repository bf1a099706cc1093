package services

import (
	"context"
	"strings"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/request_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

type AccessibilityServiceInterface interface {
	// LogAction reports whether the action was recorded. Anonymous callers
	// and storage failures both yield false without an error.
	LogAction(ctx context.Context, session *utils.Session, request request_models.AccessibilityLogRequest) bool
}

type AccessibilityService struct {
	repo   repositories.AccessibilityRepository
	logger logging.Logger
}

func NewAccessibilityService(repo repositories.AccessibilityRepository, logger logging.Logger) AccessibilityServiceInterface {
	return &AccessibilityService{repo: repo, logger: logger}
}

func (s *AccessibilityService) LogAction(ctx context.Context, session *utils.Session, request request_models.AccessibilityLogRequest) bool {
	if session == nil {
		return false
	}
	entry := &db_models.AccessibilityLog{
		UserID:  session.UserID,
		Feature: strings.TrimSpace(request.Feature),
		Action:  strings.TrimSpace(request.Action),
		Value:   request.Value,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("feature", entry.Feature).Warn("accessibility log not stored")
		return false
	}
	return true
}
