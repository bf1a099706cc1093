package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
	"blogpress/pkg/utils"
)

const unknownPostTitle = "Unknown post"

// FeedbackSubmission is the reader input before the article reference has
// been resolved.
type FeedbackSubmission struct {
	ArticleReference string
	Name             *string
	Email            *string
	Rating           *int
	Comment          *string
}

// FeedbackSubmissionResult reports a stored feedback record together with
// the outcome of the follow-up notification, which never fails the call.
type FeedbackSubmissionResult struct {
	Feedback           *db_models.Feedback
	NotificationQueued bool
	NotificationErr    error
}

type FeedbackServiceInterface interface {
	SubmitFeedback(ctx context.Context, sub FeedbackSubmission) (*FeedbackSubmissionResult, error)
	ListFeedback(ctx context.Context, page, pageSize int) ([]response_models.FeedbackResponse, int64, error)
	ListFeedbackForPost(ctx context.Context, session *utils.Session, postID uuid.UUID) ([]response_models.FeedbackResponse, error)
	UpdateFeedbackStatus(ctx context.Context, id uuid.UUID, status string) error
}

type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	posts        repositories.PostRepository
	resolver     PostResolver
	notifier     NotificationServiceInterface
	logger       logging.Logger
	metrics      *metrics.Metrics
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	posts repositories.PostRepository,
	resolver PostResolver,
	notifier NotificationServiceInterface,
	logger logging.Logger,
	m *metrics.Metrics,
) FeedbackServiceInterface {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		posts:        posts,
		resolver:     resolver,
		notifier:     notifier,
		logger:       logger,
		metrics:      m,
	}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, sub FeedbackSubmission) (*FeedbackSubmissionResult, error) {
	if err := validateFeedback(sub); err != nil {
		s.metrics.IncFeedback("invalid")
		return nil, err
	}

	postID, err := s.resolver.Resolve(ctx, sub.ArticleReference)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			s.metrics.IncFeedback("not_found")
			s.logger.WithField("reference", sub.ArticleReference).Info("feedback for unknown article")
		} else {
			s.metrics.IncFeedback("error")
		}
		return nil, err
	}

	feedback := &db_models.Feedback{
		PostID:  postID,
		Name:    trimOptional(sub.Name),
		Email:   trimOptional(sub.Email),
		Rating:  *sub.Rating,
		Comment: trimOptional(sub.Comment),
		Status:  db_models.FeedbackStatusNew,
	}
	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		s.metrics.IncFeedback("error")
		return nil, utils.NewPersistenceError("store feedback", err)
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = utils.NowUTC()
	}

	result := &FeedbackSubmissionResult{Feedback: feedback}
	entry := s.logger.WithFields(logging.Fields{"feedback_id": feedback.ID, "post_id": postID})

	if err := s.notifier.EnqueueFeedback(ctx, feedback); err != nil {
		result.NotificationErr = &utils.NotificationError{Kind: string(db_models.NotificationKindFeedbackWebhook), Err: err}
		entry.WithError(err).Warn("feedback stored but notification was not queued")
	} else {
		result.NotificationQueued = true
	}

	s.metrics.IncFeedback("stored")
	entry.WithField("rating", feedback.Rating).Info("feedback stored")
	return result, nil
}

func validateFeedback(sub FeedbackSubmission) error {
	if sub.Rating == nil {
		return utils.NewValidationError("rating", "rating is required")
	}
	if *sub.Rating < 1 || *sub.Rating > 5 {
		return utils.NewValidationError("rating", "rating must be between 1 and 5")
	}
	if strings.TrimSpace(sub.ArticleReference) == "" {
		return utils.NewValidationError("post_id", "article reference is required")
	}
	if email := trimOptional(sub.Email); email != nil && !utils.IsValidEmail(*email) {
		return utils.NewValidationError("email", "email is not valid")
	}
	return nil
}

// trimOptional turns blank optional strings into nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *FeedbackService) ListFeedback(ctx context.Context, page, pageSize int) ([]response_models.FeedbackResponse, int64, error) {
	feedbacks, total, err := s.feedbackRepo.ListFeedback(ctx, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewPersistenceError("list feedback", err)
	}

	out := make([]response_models.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		out = append(out, toFeedbackResponse(&feedbacks[i]))
	}
	return out, total, nil
}

// ListFeedbackForPost is limited to the post's author and admins.
func (s *FeedbackService) ListFeedbackForPost(ctx context.Context, session *utils.Session, postID uuid.UUID) ([]response_models.FeedbackResponse, error) {
	if session == nil {
		return nil, utils.ErrUnauthorized
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, utils.NewPersistenceError("load post", err)
	}
	if post == nil {
		return nil, utils.NewNotFoundError("post", postID.String())
	}
	if !session.CanManage(post.AuthorID) {
		return nil, utils.ErrForbidden
	}

	feedbacks, err := s.feedbackRepo.ListFeedbackForPost(ctx, postID)
	if err != nil {
		return nil, utils.NewPersistenceError("list post feedback", err)
	}

	out := make([]response_models.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		resp := toFeedbackResponse(&feedbacks[i])
		resp.PostTitle = post.Title
		out = append(out, resp)
	}
	return out, nil
}

func (s *FeedbackService) UpdateFeedbackStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !db_models.IsFeedbackStatus(status) {
		return utils.NewValidationError("status", "must be one of new, reviewed, archived")
	}
	updated, err := s.feedbackRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return utils.NewPersistenceError("update feedback status", err)
	}
	if !updated {
		return utils.NewNotFoundError("feedback", id.String())
	}
	return nil
}

func toFeedbackResponse(f *db_models.Feedback) response_models.FeedbackResponse {
	title := unknownPostTitle
	if f.Post != nil && f.Post.Title != "" {
		title = f.Post.Title
	}
	return response_models.FeedbackResponse{
		ID:          f.ID.String(),
		PostID:      f.PostID.String(),
		PostTitle:   title,
		Name:        f.Name,
		Email:       f.Email,
		Rating:      f.Rating,
		Comment:     f.Comment,
		Status:      f.Status,
		SubmittedAt: f.SubmittedAt,
	}
}
