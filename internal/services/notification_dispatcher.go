package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"blogpress/internal/config"
	"blogpress/internal/models/db_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

const (
	staleClaimAfter  = 5 * time.Minute
	maxRetryInterval = 30 * time.Minute
	maxErrorLength   = 500
)

var (
	errWebhookNotConfigured = errors.New("feedback webhook url is not configured")
	errInboxNotConfigured   = errors.New("contact inbox is not configured")
)

// Dispatcher drains the notification outbox. Each task is claimed before
// delivery so that concurrent dispatchers never send the same task twice.
type Dispatcher struct {
	repo    repositories.NotificationRepository
	webhook WebhookSender
	mailer  IMailService
	cfg     config.NotificationConfig
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	wake   chan struct{}
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(
	repo repositories.NotificationRepository,
	webhook WebhookSender,
	mailer IMailService,
	cfg config.NotificationConfig,
	logger logging.Logger,
	m *metrics.Metrics,
) *Dispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Dispatcher{
		repo:    repo,
		webhook: webhook,
		mailer:  mailer,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
		wake:    make(chan struct{}, 1),
	}
}

// Wake asks the loop to poll now. It never blocks.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.loop(ctx)
	d.logger.WithField("poll_interval", d.cfg.PollInterval.String()).Info("notification dispatcher started")
}

// Stop cancels the loop and waits for the in-flight batch, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		d.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for ctx.Err() == nil {
		processed, err := d.RunOnce(ctx)
		if err != nil {
			d.logger.WithError(err).Error("notification poll failed")
			return
		}
		if processed < d.cfg.BatchSize {
			return
		}
	}
}

// RunOnce delivers one batch of due tasks and returns how many it claimed.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.now()
	if released, err := d.repo.ReleaseStale(ctx, now.Add(-staleClaimAfter)); err != nil {
		d.logger.WithError(err).Warn("could not release stale notifications")
	} else if released > 0 {
		d.logger.WithField("released", released).Warn("released stale notifications")
	}

	tasks, err := d.repo.FindDue(ctx, now, d.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("find due notifications: %w", err)
	}

	processed := 0
	for i := range tasks {
		if ctx.Err() != nil {
			break
		}
		task := &tasks[i]
		claimed, err := d.repo.Claim(ctx, task.ID, now)
		if err != nil {
			d.logger.WithError(err).WithField("task_id", task.ID).Error("claim notification")
			continue
		}
		if !claimed {
			continue
		}
		d.process(ctx, task)
		processed++
	}
	return processed, nil
}

func (d *Dispatcher) process(ctx context.Context, task *db_models.NotificationTask) {
	attempt := task.Attempts + 1
	entry := d.logger.WithFields(logging.Fields{
		"task_id": task.ID,
		"kind":    task.Kind,
		"attempt": attempt,
	})

	attemptCtx := ctx
	if d.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.cfg.RequestTimeout*time.Duration(d.cfg.HTTPRetries+2))
		defer cancel()
	}

	status, err := d.deliver(attemptCtx, task)
	finishedAt := d.now()

	// the outcome is recorded even when Stop cancelled ctx mid-delivery
	recordCtx, cancelRecord := context.WithTimeout(context.WithoutCancel(ctx), recordOutcomeTimeout)
	defer cancelRecord()

	if err == nil {
		if markErr := d.repo.MarkDelivered(recordCtx, task.ID, status, finishedAt); markErr != nil {
			entry.WithError(markErr).Error("notification delivered but not marked")
			return
		}
		d.metrics.IncDelivery(string(task.Kind), "delivered")
		entry.WithField("status_code", status).Info("notification delivered")
		return
	}

	failed := repositories.FailedAttempt{
		Attempts:      attempt,
		Status:        db_models.NotificationPending,
		LastError:     truncateError(err),
		StatusCode:    status,
		NextAttemptAt: finishedAt.Add(retryInterval(d.cfg.PollInterval, attempt)),
	}
	outcome := "retry"
	if attempt >= d.cfg.MaxAttempts || errors.Is(err, errUnknownKind) {
		failed.Status = db_models.NotificationFailed
		outcome = "failed"
	}
	if markErr := d.repo.MarkAttemptFailed(recordCtx, task.ID, failed); markErr != nil {
		entry.WithError(markErr).Error("record failed notification attempt")
	}
	d.metrics.IncDelivery(string(task.Kind), outcome)

	entry = entry.WithError(err).WithField("status_code", status)
	if outcome == "failed" {
		entry.Error("notification failed permanently")
		return
	}
	entry.WithField("next_attempt_at", failed.NextAttemptAt).Warn("notification attempt failed")
}

var errUnknownKind = errors.New("unknown notification kind")

const recordOutcomeTimeout = 5 * time.Second

func (d *Dispatcher) deliver(ctx context.Context, task *db_models.NotificationTask) (int, error) {
	switch task.Kind {
	case db_models.NotificationKindFeedbackWebhook:
		if d.cfg.WebhookURL == "" {
			return 0, errWebhookNotConfigured
		}
		status, err := d.webhook.PostJSON(ctx, d.cfg.WebhookURL, task.Payload)
		if err != nil {
			return status, err
		}
		if status < 200 || status > 299 {
			return status, fmt.Errorf("webhook responded with status %d", status)
		}
		return status, nil

	case db_models.NotificationKindContactEmail:
		if d.cfg.ContactInbox == "" {
			return 0, errInboxNotConfigured
		}
		var msg ContactEmail
		if err := json.Unmarshal(task.Payload, &msg); err != nil {
			return 0, fmt.Errorf("decode contact payload: %w", err)
		}
		if _, err := d.mailer.SendContactNotification(ctx, d.cfg.ContactInbox, msg); err != nil {
			return 0, err
		}
		return 0, nil

	default:
		return 0, fmt.Errorf("%w: %s", errUnknownKind, task.Kind)
	}
}

// retryInterval doubles the base interval per attempt, capped.
func retryInterval(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	interval := base
	for i := 1; i < attempt; i++ {
		interval *= 2
		if interval >= maxRetryInterval {
			return maxRetryInterval
		}
	}
	return interval
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > maxErrorLength {
		return msg[:maxErrorLength]
	}
	return msg
}
