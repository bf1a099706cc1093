package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"blogpress/internal/config"
	"blogpress/internal/models/db_models"
	"blogpress/pkg/utils"
)

func notifyConfig() config.NotificationConfig {
	return config.NotificationConfig{
		WebhookURL:     "https://hooks.example.com/feedback",
		FeedbackEmail:  "editor@example.com",
		ContactInbox:   "inbox@example.com",
		PollInterval:   time.Second,
		MaxAttempts:    3,
		BatchSize:      10,
		RequestTimeout: time.Second,
	}
}

func TestEnqueueFeedbackBuildsWebhookPayload(t *testing.T) {
	repo := newNotificationRepoStub()
	waker := &wakerStub{}
	svc := NewNotificationService(repo, waker, notifyConfig(), quietLogger(), nil)

	fb := &db_models.Feedback{
		ID:          uuid.New(),
		PostID:      uuid.New(),
		Name:        ptr("Ada"),
		Rating:      4,
		Comment:     ptr("Helpful"),
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.EnqueueFeedback(context.Background(), fb))

	task := repo.only()
	require.NotNil(t, task)
	assert.Equal(t, db_models.NotificationKindFeedbackWebhook, task.Kind)
	assert.Equal(t, db_models.NotificationPending, task.Status)
	assert.Equal(t, 1, waker.n)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(task.Payload, &payload))
	assert.Equal(t, fb.PostID.String(), payload["post_id"])
	assert.Equal(t, "Ada", payload["name"])
	assert.Nil(t, payload["email"])
	assert.Equal(t, float64(4), payload["rating"])
	assert.Equal(t, "editor@example.com", payload["email_to"])
	assert.Equal(t, "2024-05-01T12:00:00Z", payload["submitted_at"])
	assert.Equal(t, "new_feedback", payload["notification_type"])
}

func TestEnqueueFailureIsNotificationError(t *testing.T) {
	repo := newNotificationRepoStub()
	repo.enqueueErr = errors.New("insert failed")
	svc := NewNotificationService(repo, nil, notifyConfig(), quietLogger(), nil)

	err := svc.EnqueueContact(context.Background(), &db_models.ContactMessage{Name: "Grace"})
	assert.ErrorIs(t, err, utils.ErrNotificationFailed)
}

func TestRetryOnlyRequeuesFailedTasks(t *testing.T) {
	failed := &db_models.NotificationTask{Status: db_models.NotificationFailed, Attempts: 3}
	delivered := &db_models.NotificationTask{Status: db_models.NotificationDelivered}
	repo := newNotificationRepoStub(failed, delivered)
	svc := NewNotificationService(repo, &wakerStub{}, notifyConfig(), quietLogger(), nil)

	require.NoError(t, svc.Retry(context.Background(), failed.ID))
	assert.Equal(t, db_models.NotificationPending, failed.Status)
	assert.Zero(t, failed.Attempts)

	var validation *utils.ValidationError
	assert.ErrorAs(t, svc.Retry(context.Background(), delivered.ID), &validation)
	assert.ErrorIs(t, svc.Retry(context.Background(), uuid.New()), utils.ErrNotFound)
}

func TestListTasksRejectsUnknownStatus(t *testing.T) {
	svc := NewNotificationService(newNotificationRepoStub(), nil, notifyConfig(), quietLogger(), nil)
	_, _, err := svc.ListTasks(context.Background(), "bogus", 1, 10)
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func dueTask(kind db_models.NotificationKind, payload interface{}) *db_models.NotificationTask {
	raw, _ := json.Marshal(payload)
	return &db_models.NotificationTask{
		Kind:          kind,
		Payload:       datatypes.JSON(raw),
		Status:        db_models.NotificationPending,
		NextAttemptAt: time.Now().Add(-time.Minute),
	}
}

func TestDispatcherDeliversWebhook(t *testing.T) {
	task := dueTask(db_models.NotificationKindFeedbackWebhook, map[string]string{"post_id": "x"})
	repo := newNotificationRepoStub(task)
	hook := &webhookStub{status: http.StatusAccepted}
	d := NewDispatcher(repo, hook, &mailerStub{}, notifyConfig(), quietLogger(), nil)

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, db_models.NotificationDelivered, task.Status)
	assert.Equal(t, http.StatusAccepted, task.LastStatusCode)
	assert.NotNil(t, task.DeliveredAt)
	assert.Equal(t, []string{"https://hooks.example.com/feedback"}, hook.urls)
	assert.JSONEq(t, `{"post_id":"x"}`, string(hook.bodies[0]))

	n, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "delivered tasks are not picked up again")
}

func TestDispatcherRecordsOutcomeWhenStoppedMidDelivery(t *testing.T) {
	delivered := dueTask(db_models.NotificationKindFeedbackWebhook, map[string]string{})
	repo := newNotificationRepoStub(delivered)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hook := &webhookStub{status: http.StatusOK, onPost: cancel}
	d := NewDispatcher(repo, hook, &mailerStub{}, notifyConfig(), quietLogger(), nil)

	_, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationDelivered, delivered.Status, "a delivered task must not stay in processing")

	failing := dueTask(db_models.NotificationKindFeedbackWebhook, map[string]string{})
	repo = newNotificationRepoStub(failing)
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	hook = &webhookStub{status: http.StatusBadGateway, err: errors.New("bad gateway"), onPost: cancel}
	d = NewDispatcher(repo, hook, &mailerStub{}, notifyConfig(), quietLogger(), nil)

	_, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationPending, failing.Status)
	assert.Equal(t, 1, failing.Attempts)
}

func TestDispatcherSchedulesRetryThenFails(t *testing.T) {
	task := dueTask(db_models.NotificationKindFeedbackWebhook, map[string]string{})
	repo := newNotificationRepoStub(task)
	hook := &webhookStub{status: http.StatusBadGateway}
	cfg := notifyConfig()
	cfg.MaxAttempts = 2
	d := NewDispatcher(repo, hook, &mailerStub{}, cfg, quietLogger(), nil)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationPending, task.Status)
	assert.Equal(t, 1, task.Attempts)
	assert.Equal(t, http.StatusBadGateway, task.LastStatusCode)
	assert.Contains(t, task.LastError, "502")
	assert.True(t, task.NextAttemptAt.After(time.Now()))

	task.NextAttemptAt = time.Now().Add(-time.Second)
	_, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationFailed, task.Status)
	assert.Equal(t, 2, task.Attempts)
}

func TestDispatcherWithoutWebhookURLFailsVisibly(t *testing.T) {
	task := dueTask(db_models.NotificationKindFeedbackWebhook, map[string]string{})
	repo := newNotificationRepoStub(task)
	cfg := notifyConfig()
	cfg.WebhookURL = ""
	hook := &webhookStub{status: http.StatusOK}
	d := NewDispatcher(repo, hook, &mailerStub{}, cfg, quietLogger(), nil)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hook.urls)
	assert.Equal(t, 1, task.Attempts)
	assert.Contains(t, task.LastError, "not configured")
}

func TestDispatcherSendsContactEmail(t *testing.T) {
	task := dueTask(db_models.NotificationKindContactEmail, validContact())
	repo := newNotificationRepoStub(task)
	mailer := &mailerStub{}
	d := NewDispatcher(repo, &webhookStub{}, mailer, notifyConfig(), quietLogger(), nil)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationDelivered, task.Status)
	assert.Equal(t, []string{"inbox@example.com"}, mailer.to)
	assert.Equal(t, validContact(), mailer.sent[0])
}

func TestDispatcherFailsUnknownKindImmediately(t *testing.T) {
	task := dueTask("sms", map[string]string{})
	repo := newNotificationRepoStub(task)
	d := NewDispatcher(repo, &webhookStub{}, &mailerStub{}, notifyConfig(), quietLogger(), nil)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationFailed, task.Status)
}

func TestDispatcherStartStop(t *testing.T) {
	task := dueTask(db_models.NotificationKindContactEmail, validContact())
	repo := newNotificationRepoStub(task)
	d := NewDispatcher(repo, &webhookStub{}, &mailerStub{}, notifyConfig(), quietLogger(), nil)

	d.Start()
	require.Eventually(t, func() bool {
		got, _ := repo.FindByID(context.Background(), task.ID)
		return got.Status == db_models.NotificationDelivered
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Stop(ctx))
	assert.NoError(t, d.Stop(ctx), "second stop is a no-op")
}

func TestRetryIntervalIsCapped(t *testing.T) {
	assert.Equal(t, 5*time.Second, retryInterval(5*time.Second, 1))
	assert.Equal(t, 20*time.Second, retryInterval(5*time.Second, 3))
	assert.Equal(t, maxRetryInterval, retryInterval(5*time.Second, 40))
}

func TestWebhookClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewWebhookClient(time.Second, time.Millisecond, 5*time.Millisecond, 3)
	status, err := client.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewWebhookClient(time.Second, time.Millisecond, 5*time.Millisecond, 3)
	status, err := client.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
