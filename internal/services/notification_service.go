package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"blogpress/internal/config"
	"blogpress/internal/models/db_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
	"blogpress/pkg/utils"
)

const feedbackNotificationType = "new_feedback"

// FeedbackNotification is the JSON body POSTed to the feedback webhook.
type FeedbackNotification struct {
	PostID           string  `json:"post_id"`
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Rating           int     `json:"rating"`
	Comment          *string `json:"comment"`
	EmailTo          string  `json:"email_to"`
	SubmittedAt      string  `json:"submitted_at"`
	NotificationType string  `json:"notification_type"`
}

// ContactEmail is the body accepted by the contact email function.
type ContactEmail struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Waker is poked after a task is written so delivery does not wait for the
// next poll.
type Waker interface {
	Wake()
}

type NotificationServiceInterface interface {
	EnqueueFeedback(ctx context.Context, feedback *db_models.Feedback) error
	EnqueueContact(ctx context.Context, msg *db_models.ContactMessage) error
	ListTasks(ctx context.Context, status string, page, pageSize int) ([]response_models.NotificationTaskResponse, int64, error)
	Retry(ctx context.Context, id uuid.UUID) error
}

type NotificationService struct {
	repo    repositories.NotificationRepository
	waker   Waker
	cfg     config.NotificationConfig
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewNotificationService(
	repo repositories.NotificationRepository,
	waker Waker,
	cfg config.NotificationConfig,
	logger logging.Logger,
	m *metrics.Metrics,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, waker: waker, cfg: cfg, logger: logger, metrics: m}
}

func NewFeedbackNotification(feedback *db_models.Feedback, emailTo string) FeedbackNotification {
	return FeedbackNotification{
		PostID:           feedback.PostID.String(),
		Name:             feedback.Name,
		Email:            feedback.Email,
		Rating:           feedback.Rating,
		Comment:          feedback.Comment,
		EmailTo:          emailTo,
		SubmittedAt:      utils.FormatRFC3339UTC(feedback.SubmittedAt),
		NotificationType: feedbackNotificationType,
	}
}

func (s *NotificationService) EnqueueFeedback(ctx context.Context, feedback *db_models.Feedback) error {
	return s.enqueue(ctx, db_models.NotificationKindFeedbackWebhook, NewFeedbackNotification(feedback, s.cfg.FeedbackEmail))
}

func (s *NotificationService) EnqueueContact(ctx context.Context, msg *db_models.ContactMessage) error {
	return s.enqueue(ctx, db_models.NotificationKindContactEmail, ContactEmail{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: msg.Message,
	})
}

func (s *NotificationService) enqueue(ctx context.Context, kind db_models.NotificationKind, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &utils.NotificationError{Kind: string(kind), Err: fmt.Errorf("encode payload: %w", err)}
	}

	task := &db_models.NotificationTask{
		Kind:          kind,
		Payload:       datatypes.JSON(raw),
		Status:        db_models.NotificationPending,
		NextAttemptAt: utils.NowUTC(),
	}
	if err := s.repo.Enqueue(ctx, task); err != nil {
		return &utils.NotificationError{Kind: string(kind), Err: err}
	}

	s.metrics.IncEnqueued(string(kind))
	s.logger.WithFields(logging.Fields{"task_id": task.ID, "kind": kind}).Debug("notification queued")
	if s.waker != nil {
		s.waker.Wake()
	}
	return nil
}

func (s *NotificationService) ListTasks(ctx context.Context, status string, page, pageSize int) ([]response_models.NotificationTaskResponse, int64, error) {
	switch db_models.NotificationStatus(status) {
	case "", db_models.NotificationPending, db_models.NotificationProcessing, db_models.NotificationDelivered, db_models.NotificationFailed:
	default:
		return nil, 0, utils.NewValidationError("status", "must be one of pending, processing, delivered, failed")
	}

	tasks, total, err := s.repo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewPersistenceError("list notifications", err)
	}

	out := make([]response_models.NotificationTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, response_models.NotificationTaskResponse{
			ID:             t.ID.String(),
			Kind:           string(t.Kind),
			Status:         string(t.Status),
			Attempts:       t.Attempts,
			LastError:      t.LastError,
			LastStatusCode: t.LastStatusCode,
			NextAttemptAt:  t.NextAttemptAt,
			DeliveredAt:    t.DeliveredAt,
			CreatedAt:      t.CreatedAt,
			Payload:        json.RawMessage(t.Payload),
		})
	}
	return out, total, nil
}

// Retry puts a failed task back in the queue with a fresh attempt budget.
func (s *NotificationService) Retry(ctx context.Context, id uuid.UUID) error {
	requeued, err := s.repo.Requeue(ctx, id, utils.NowUTC())
	if err != nil {
		return utils.NewPersistenceError("requeue notification", err)
	}
	if !requeued {
		task, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return utils.NewPersistenceError("load notification", err)
		}
		if task == nil {
			return utils.NewNotFoundError("notification", id.String())
		}
		return utils.NewValidationError("status", fmt.Sprintf("only failed notifications can be retried (current: %s)", task.Status))
	}

	s.logger.WithField("task_id", id).Info("notification requeued")
	if s.waker != nil {
		s.waker.Wake()
	}
	return nil
}
