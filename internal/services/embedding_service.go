package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogpress/internal/models/db_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

const (
	embeddingRefreshTimeout = 30 * time.Second
	// embeddingInputRunes keeps requests well under provider token limits.
	embeddingInputRunes = 6000
)

// EmbeddingServiceInterface keeps post vectors fresh and answers
// nearest-neighbour queries. With no provider configured it does nothing.
type EmbeddingServiceInterface interface {
	Enabled() bool
	Refresh(ctx context.Context, post *db_models.Post) error
	RefreshAsync(post *db_models.Post)
	RelatedPostIDs(ctx context.Context, postID uuid.UUID, limit int) ([]uuid.UUID, error)
}

type EmbeddingService struct {
	client utils.EmbeddingClientInterface
	repo   repositories.PostEmbeddingRepository
	logger logging.Logger
}

// NewEmbeddingService accepts a nil client.
func NewEmbeddingService(client utils.EmbeddingClientInterface, repo repositories.PostEmbeddingRepository, logger logging.Logger) EmbeddingServiceInterface {
	return &EmbeddingService{client: client, repo: repo, logger: logger}
}

func (s *EmbeddingService) Enabled() bool {
	return s.client != nil
}

func embeddingInput(post *db_models.Post) string {
	text := post.Title + "\n\n" + utils.PlainText(post.Content)
	runes := []rune(text)
	if len(runes) > embeddingInputRunes {
		runes = runes[:embeddingInputRunes]
	}
	return string(runes)
}

func (s *EmbeddingService) Refresh(ctx context.Context, post *db_models.Post) error {
	if !s.Enabled() {
		return nil
	}
	vector, err := s.client.GetEmbedding(ctx, embeddingInput(post))
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, &db_models.PostEmbedding{
		PostID:    post.ID,
		Embedding: vector,
		Model:     s.client.Model(),
	})
}

func (s *EmbeddingService) RefreshAsync(post *db_models.Post) {
	if !s.Enabled() {
		return
	}
	snapshot := *post
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), embeddingRefreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx, &snapshot); err != nil {
			s.logger.WithError(err).WithField("post_id", snapshot.ID).Warn("post embedding refresh failed")
		}
	}()
}

// RelatedPostIDs returns nil when the post has no stored vector.
func (s *EmbeddingService) RelatedPostIDs(ctx context.Context, postID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if !s.Enabled() {
		return nil, nil
	}
	current, err := s.repo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.Model != s.client.Model() {
		return nil, nil
	}
	return s.repo.NearestPostIDs(ctx, current.Embedding, current.Model, postID, limit)
}
