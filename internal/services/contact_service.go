package services

import (
	"context"
	"strings"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
	"blogpress/pkg/utils"
)

type ContactSubmissionResult struct {
	Message            *db_models.ContactMessage
	NotificationQueued bool
	NotificationErr    error
}

type ContactServiceInterface interface {
	SubmitContactMessage(ctx context.Context, msg ContactEmail) (*ContactSubmissionResult, error)
	ListContactMessages(ctx context.Context, page, pageSize int) ([]response_models.ContactMessageResponse, int64, error)
}

type ContactService struct {
	repo     repositories.ContactRepository
	notifier NotificationServiceInterface
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewContactService(
	repo repositories.ContactRepository,
	notifier NotificationServiceInterface,
	logger logging.Logger,
	m *metrics.Metrics,
) ContactServiceInterface {
	return &ContactService{repo: repo, notifier: notifier, logger: logger, metrics: m}
}

func (s *ContactService) SubmitContactMessage(ctx context.Context, in ContactEmail) (*ContactSubmissionResult, error) {
	in = ContactEmail{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if err := ValidateContact(in); err != nil {
		s.metrics.IncContact("invalid")
		return nil, err
	}

	msg := &db_models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.metrics.IncContact("error")
		return nil, utils.NewPersistenceError("store contact message", err)
	}

	result := &ContactSubmissionResult{Message: msg}
	entry := s.logger.WithFields(logging.Fields{
		"contact_id": msg.ID,
		"email":      logging.RedactEmail(msg.Email),
	})
	if err := s.notifier.EnqueueContact(ctx, msg); err != nil {
		result.NotificationErr = &utils.NotificationError{Kind: string(db_models.NotificationKindContactEmail), Err: err}
		entry.WithError(err).Warn("contact message stored but email was not queued")
	} else {
		result.NotificationQueued = true
	}

	s.metrics.IncContact("stored")
	entry.Info("contact message stored")
	return result, nil
}

// ValidateContact enforces the minimum lengths the contact form asks for.
func ValidateContact(in ContactEmail) error {
	switch {
	case utils.RuneLen(in.Name) < 2:
		return utils.NewValidationError("name", "name must be at least 2 characters")
	case !utils.IsValidEmail(in.Email):
		return utils.NewValidationError("email", "please enter a valid email address")
	case utils.RuneLen(in.Subject) < 5:
		return utils.NewValidationError("subject", "subject must be at least 5 characters")
	case utils.RuneLen(in.Message) < 10:
		return utils.NewValidationError("message", "message must be at least 10 characters")
	}
	return nil
}

func (s *ContactService) ListContactMessages(ctx context.Context, page, pageSize int) ([]response_models.ContactMessageResponse, int64, error) {
	msgs, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewPersistenceError("list contact messages", err)
	}
	out := make([]response_models.ContactMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, response_models.ContactMessageResponse{
			ID:      m.ID.String(),
			Name:    m.Name,
			Email:   m.Email,
			Subject: m.Subject,
			Message: m.Message,
			SentAt:  m.SentAt,
		})
	}
	return out, total, nil
}
