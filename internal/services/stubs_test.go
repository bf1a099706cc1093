package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
)

func quietLogger() logging.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func ptr[T any](v T) *T { return &v }

// ---------- posts ----------

type postRepoStub struct {
	posts   []db_models.Post
	err     error
	queries []string
	created []*db_models.Post
	updates map[string]interface{}
	deleted []uuid.UUID
	// raced slugs are claimed by a competing insert right before Create runs
	raced map[string]bool
}

func (s *postRepoStub) record(q string) { s.queries = append(s.queries, q) }

func (s *postRepoStub) find(match func(p *db_models.Post) bool) *db_models.Post {
	for i := range s.posts {
		if match(&s.posts[i]) {
			p := s.posts[i]
			return &p
		}
	}
	return nil
}

func (s *postRepoStub) ListPosts(_ context.Context, f repositories.PostFilter) ([]db_models.Post, int64, error) {
	s.record("list")
	return s.posts, int64(len(s.posts)), s.err
}

func (s *postRepoStub) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]db_models.Post, error) {
	s.record("by_author")
	var out []db_models.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *postRepoStub) FindByID(_ context.Context, id uuid.UUID) (*db_models.Post, error) {
	s.record("id")
	if s.err != nil {
		return nil, s.err
	}
	return s.find(func(p *db_models.Post) bool { return p.ID == id }), nil
}

func (s *postRepoStub) FindByIDs(_ context.Context, ids []uuid.UUID) ([]db_models.Post, error) {
	s.record("ids")
	var out []db_models.Post
	for _, id := range ids {
		if p := s.find(func(p *db_models.Post) bool { return p.ID == id }); p != nil {
			out = append([]db_models.Post{*p}, out...)
		}
	}
	return out, s.err
}

func (s *postRepoStub) FindBySlug(_ context.Context, slug string) (*db_models.Post, error) {
	s.record("slug")
	if s.err != nil {
		return nil, s.err
	}
	return s.find(func(p *db_models.Post) bool { return p.Slug == slug }), nil
}

func (s *postRepoStub) FindByTitleExact(_ context.Context, title string) (*db_models.Post, error) {
	s.record("title")
	if s.err != nil {
		return nil, s.err
	}
	return s.find(func(p *db_models.Post) bool { return strings.EqualFold(p.Title, title) }), nil
}

func (s *postRepoStub) FindFirstByTitleContaining(_ context.Context, fragment string) (*db_models.Post, error) {
	s.record("fragment")
	if s.err != nil {
		return nil, s.err
	}
	return s.find(func(p *db_models.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), strings.ToLower(fragment))
	}), nil
}

func (s *postRepoStub) FindRelatedByTags(_ context.Context, id uuid.UUID, tags []string, limit int) ([]db_models.Post, error) {
	s.record("related_tags")
	var out []db_models.Post
	for _, p := range s.posts {
		if p.ID == id {
			continue
		}
		for _, t := range p.Tags {
			if containsString(tags, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out, s.err
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *postRepoStub) SlugExists(_ context.Context, slug string) (bool, error) {
	s.record("slug_exists")
	return s.find(func(p *db_models.Post) bool { return p.Slug == slug }) != nil, s.err
}

func (s *postRepoStub) Create(_ context.Context, post *db_models.Post) error {
	s.record("create")
	if s.err != nil {
		return s.err
	}
	if s.raced[post.Slug] {
		delete(s.raced, post.Slug)
		s.posts = append(s.posts, db_models.Post{BaseModel: db_models.BaseModel{ID: uuid.New()}, Slug: post.Slug})
		return repositories.ErrSlugTaken
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	s.created = append(s.created, post)
	s.posts = append(s.posts, *post)
	return nil
}

func (s *postRepoStub) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s.record("update")
	s.updates = updates
	return s.err
}

func (s *postRepoStub) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.record("delete")
	s.deleted = append(s.deleted, id)
	return true, s.err
}

// ---------- feedback ----------

type feedbackRepoStub struct {
	created   []*db_models.Feedback
	createErr error
	list      []db_models.Feedback
	updated   map[uuid.UUID]string
}

func (s *feedbackRepoStub) CreateFeedback(_ context.Context, f *db_models.Feedback) error {
	if s.createErr != nil {
		return s.createErr
	}
	f.ID = uuid.New()
	f.SubmittedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.created = append(s.created, f)
	return nil
}

func (s *feedbackRepoStub) ListFeedback(_ context.Context, page, pageSize int) ([]db_models.Feedback, int64, error) {
	return s.list, int64(len(s.list)), nil
}

func (s *feedbackRepoStub) ListFeedbackForPost(_ context.Context, postID uuid.UUID) ([]db_models.Feedback, error) {
	var out []db_models.Feedback
	for _, f := range s.list {
		if f.PostID == postID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *feedbackRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status string) (bool, error) {
	if s.updated == nil {
		s.updated = map[uuid.UUID]string{}
	}
	for _, f := range s.list {
		if f.ID == id {
			s.updated[id] = status
			return true, nil
		}
	}
	return false, nil
}

// ---------- notifications ----------

type notifierStub struct {
	feedback []*db_models.Feedback
	contacts []*db_models.ContactMessage
	err      error
}

func (s *notifierStub) EnqueueFeedback(_ context.Context, f *db_models.Feedback) error {
	if s.err != nil {
		return s.err
	}
	s.feedback = append(s.feedback, f)
	return nil
}

func (s *notifierStub) EnqueueContact(_ context.Context, m *db_models.ContactMessage) error {
	if s.err != nil {
		return s.err
	}
	s.contacts = append(s.contacts, m)
	return nil
}

func (s *notifierStub) ListTasks(context.Context, string, int, int) ([]response_models.NotificationTaskResponse, int64, error) {
	return nil, 0, nil
}

func (s *notifierStub) Retry(context.Context, uuid.UUID) error { return nil }

type notificationRepoStub struct {
	mu         sync.Mutex
	tasks      map[uuid.UUID]*db_models.NotificationTask
	enqueueErr error
}

func newNotificationRepoStub(tasks ...*db_models.NotificationTask) *notificationRepoStub {
	s := &notificationRepoStub{tasks: map[uuid.UUID]*db_models.NotificationTask{}}
	for _, t := range tasks {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		s.tasks[t.ID] = t
	}
	return s
}

func (s *notificationRepoStub) Enqueue(_ context.Context, task *db_models.NotificationTask) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = uuid.New()
	s.tasks[task.ID] = task
	return nil
}

func (s *notificationRepoStub) FindDue(_ context.Context, now time.Time, limit int) ([]db_models.NotificationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db_models.NotificationTask
	for _, t := range s.tasks {
		if t.Status == db_models.NotificationPending && !t.NextAttemptAt.After(now) && len(out) < limit {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *notificationRepoStub) Claim(_ context.Context, id uuid.UUID, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status != db_models.NotificationPending {
		return false, nil
	}
	t.Status = db_models.NotificationProcessing
	return true, nil
}

func (s *notificationRepoStub) MarkDelivered(ctx context.Context, id uuid.UUID, code int, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tasks[id]
	t.Status = db_models.NotificationDelivered
	t.Attempts++
	t.LastStatusCode = code
	t.DeliveredAt = &at
	return nil
}

func (s *notificationRepoStub) MarkAttemptFailed(ctx context.Context, id uuid.UUID, a repositories.FailedAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tasks[id]
	t.Status = a.Status
	t.Attempts = a.Attempts
	t.LastError = a.LastError
	t.LastStatusCode = a.StatusCode
	t.NextAttemptAt = a.NextAttemptAt
	return nil
}

func (s *notificationRepoStub) ReleaseStale(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *notificationRepoStub) Requeue(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status != db_models.NotificationFailed {
		return false, nil
	}
	t.Status = db_models.NotificationPending
	t.Attempts = 0
	t.NextAttemptAt = now
	return true, nil
}

func (s *notificationRepoStub) FindByID(_ context.Context, id uuid.UUID) (*db_models.NotificationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *notificationRepoStub) List(context.Context, string, int, int) ([]db_models.NotificationTask, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db_models.NotificationTask
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (s *notificationRepoStub) only() *db_models.NotificationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		return t
	}
	return nil
}

type wakerStub struct{ n int }

func (w *wakerStub) Wake() { w.n++ }

type webhookStub struct {
	status int
	err    error
	bodies [][]byte
	urls   []string
	onPost func()
}

func (w *webhookStub) PostJSON(_ context.Context, url string, body []byte) (int, error) {
	w.urls = append(w.urls, url)
	w.bodies = append(w.bodies, body)
	if w.onPost != nil {
		w.onPost()
	}
	return w.status, w.err
}

type mailerStub struct {
	sent []ContactEmail
	to   []string
	err  error
}

func (m *mailerStub) SendContactNotification(_ context.Context, to string, msg ContactEmail) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.to = append(m.to, to)
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

// ---------- contact ----------

type contactRepoStub struct {
	created []*db_models.ContactMessage
	err     error
}

func (s *contactRepoStub) Create(_ context.Context, msg *db_models.ContactMessage) error {
	if s.err != nil {
		return s.err
	}
	msg.ID = uuid.New()
	s.created = append(s.created, msg)
	return nil
}

func (s *contactRepoStub) List(context.Context, int, int) ([]db_models.ContactMessage, int64, error) {
	var out []db_models.ContactMessage
	for _, m := range s.created {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

// ---------- accounts ----------

type accountRepoStub struct {
	accounts map[uuid.UUID]*db_models.Account
}

func newAccountRepoStub(accounts ...*db_models.Account) *accountRepoStub {
	s := &accountRepoStub{accounts: map[uuid.UUID]*db_models.Account{}}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *accountRepoStub) Insert(_ context.Context, a *db_models.Account) error {
	a.ID = uuid.New()
	s.accounts[a.ID] = a
	return nil
}

func (s *accountRepoStub) FindById(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	return s.accounts[id], nil
}

func (s *accountRepoStub) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, nil
}

func (s *accountRepoStub) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	if a, ok := s.accounts[id]; ok {
		a.Name = name
	}
	return nil
}
