package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/request_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

const (
	DefaultCoverImageURL = "https://images.unsplash.com/photo-1499750310107-5fef28a66643"
	unknownAuthorName    = "Unknown Author"

	minTitleLength    = 5
	minContentLength  = 50
	maxSlugAttempts   = 20
	maxCreateAttempts = 3
	defaultRelated    = 3
	maxRelated        = 12
)

type PostServiceInterface interface {
	ListPosts(ctx context.Context, query request_models.ListPostsQuery) (*response_models.PostList, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*response_models.PostDetail, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]response_models.PostSummary, error)
	RelatedPosts(ctx context.Context, id uuid.UUID, limit int) ([]response_models.PostSummary, error)
	CreatePost(ctx context.Context, session *utils.Session, request request_models.CreatePostRequest) (*response_models.CreatedPost, error)
	UpdatePost(ctx context.Context, session *utils.Session, id uuid.UUID, request request_models.UpdatePostRequest) (*response_models.PostDetail, error)
	DeletePost(ctx context.Context, session *utils.Session, id uuid.UUID) error
}

type PostService struct {
	posts      repositories.PostRepository
	embeddings EmbeddingServiceInterface
	logger     logging.Logger
}

func NewPostService(posts repositories.PostRepository, embeddings EmbeddingServiceInterface, logger logging.Logger) PostServiceInterface {
	return &PostService{posts: posts, embeddings: embeddings, logger: logger}
}

func (s *PostService) ListPosts(ctx context.Context, query request_models.ListPostsQuery) (*response_models.PostList, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 10
	}
	if query.Page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	posts, total, err := s.posts.ListPosts(ctx, repositories.PostFilter{
		Query:    query.Query,
		Tag:      query.Tag,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, utils.NewPersistenceError("list posts", err)
	}

	return &response_models.PostList{
		Items:    toPostSummaries(posts),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id uuid.UUID) (*response_models.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, utils.NewPersistenceError("load post", err)
	}
	if post == nil {
		return nil, utils.NewNotFoundError("post", id.String())
	}
	detail := toPostDetail(post)
	return &detail, nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]response_models.PostSummary, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, utils.NewPersistenceError("list author posts", err)
	}
	return toPostSummaries(posts), nil
}

// RelatedPosts prefers embedding neighbours and falls back to posts that
// share at least one tag.
func (s *PostService) RelatedPosts(ctx context.Context, id uuid.UUID, limit int) ([]response_models.PostSummary, error) {
	if limit <= 0 {
		limit = defaultRelated
	}
	if limit > maxRelated {
		limit = maxRelated
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, utils.NewPersistenceError("load post", err)
	}
	if post == nil {
		return nil, utils.NewNotFoundError("post", id.String())
	}

	if s.embeddings != nil && s.embeddings.Enabled() {
		ids, err := s.embeddings.RelatedPostIDs(ctx, id, limit)
		if err != nil {
			s.logger.WithError(err).WithField("post_id", id).Warn("embedding lookup failed, using tags")
		} else if len(ids) > 0 {
			related, err := s.posts.FindByIDs(ctx, ids)
			if err != nil {
				return nil, utils.NewPersistenceError("load related posts", err)
			}
			return toPostSummaries(orderByIDs(related, ids)), nil
		}
	}

	related, err := s.posts.FindRelatedByTags(ctx, id, post.Tags, limit)
	if err != nil {
		return nil, utils.NewPersistenceError("load related posts", err)
	}
	return toPostSummaries(related), nil
}

func orderByIDs(posts []db_models.Post, ids []uuid.UUID) []db_models.Post {
	byID := make(map[uuid.UUID]db_models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	out := make([]db_models.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *PostService) CreatePost(ctx context.Context, session *utils.Session, request request_models.CreatePostRequest) (*response_models.CreatedPost, error) {
	if session == nil {
		return nil, utils.ErrUnauthorized
	}
	title := strings.TrimSpace(request.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(request.Content); err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	post := &db_models.Post{
		Title:         title,
		Content:       request.Content,
		CoverImageURL: strings.TrimSpace(request.CoverImageURL),
		Tags:          pq.StringArray(normalizeTags(request.Tags)),
		PublishedAt:   now,
		AuthorID:      session.UserID,
	}
	post.CreatedAt = now
	post.UpdatedAt = now

	var slug string
	for attempt := 1; ; attempt++ {
		var err error
		slug, err = s.uniqueSlug(ctx, title)
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.posts.Create(ctx, post)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrSlugTaken) && attempt < maxCreateAttempts {
			s.logger.WithField("slug", slug).Debug("slug taken concurrently, retrying")
			continue
		}
		return nil, utils.NewPersistenceError("create post", err)
	}

	s.logger.WithFields(logging.Fields{"post_id": post.ID, "slug": slug, "author_id": session.UserID}).Info("post created")
	if s.embeddings != nil {
		s.embeddings.RefreshAsync(post)
	}
	return &response_models.CreatedPost{ID: post.ID.String(), Slug: slug}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, session *utils.Session, id uuid.UUID, request request_models.UpdatePostRequest) (*response_models.PostDetail, error) {
	if session == nil {
		return nil, utils.ErrUnauthorized
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, utils.NewPersistenceError("load post", err)
	}
	if post == nil {
		return nil, utils.NewNotFoundError("post", id.String())
	}
	if !session.CanManage(post.AuthorID) {
		return nil, utils.ErrForbidden
	}

	updates := map[string]interface{}{}
	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
		post.Title = title
	}
	if request.Content != nil {
		if err := validateContent(*request.Content); err != nil {
			return nil, err
		}
		updates["content"] = *request.Content
		post.Content = *request.Content
	}
	if request.CoverImageURL != nil {
		cover := strings.TrimSpace(*request.CoverImageURL)
		updates["cover_image_url"] = cover
		post.CoverImageURL = cover
	}
	if request.Tags != nil {
		tags := pq.StringArray(normalizeTags(*request.Tags))
		updates["tags"] = tags
		post.Tags = tags
	}

	now := utils.NowUTC()
	updates["updated_at"] = now
	post.UpdatedAt = now

	if err := s.posts.Update(ctx, id, updates); err != nil {
		return nil, utils.NewPersistenceError("update post", err)
	}

	s.logger.WithFields(logging.Fields{"post_id": id, "fields": len(updates) - 1}).Info("post updated")
	if s.embeddings != nil && (request.Title != nil || request.Content != nil) {
		s.embeddings.RefreshAsync(post)
	}
	detail := toPostDetail(post)
	return &detail, nil
}

func (s *PostService) DeletePost(ctx context.Context, session *utils.Session, id uuid.UUID) error {
	if session == nil {
		return utils.ErrUnauthorized
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return utils.NewPersistenceError("load post", err)
	}
	if post == nil {
		return utils.NewNotFoundError("post", id.String())
	}
	if !session.CanManage(post.AuthorID) {
		return utils.ErrForbidden
	}

	if _, err := s.posts.Delete(ctx, id); err != nil {
		return utils.NewPersistenceError("delete post", err)
	}
	s.logger.WithFields(logging.Fields{"post_id": id, "by": session.UserID}).Info("post deleted")
	return nil
}

// uniqueSlug derives a slug from the title, suffixing -2, -3... on collision.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "post"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.posts.SlugExists(ctx, candidate)
		if err != nil {
			return "", utils.NewPersistenceError("check slug", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func validateTitle(title string) error {
	if utils.RuneLen(title) < minTitleLength {
		return utils.NewValidationError("title", fmt.Sprintf("title must be at least %d characters", minTitleLength))
	}
	return nil
}

func validateContent(content string) error {
	if utils.RuneLen(strings.TrimSpace(content)) < minContentLength {
		return utils.NewValidationError("content", fmt.Sprintf("content must be at least %d characters", minContentLength))
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func toPostSummary(p *db_models.Post) response_models.PostSummary {
	author := unknownAuthorName
	if p.Author != nil && p.Author.Name != "" {
		author = p.Author.Name
	}
	cover := p.CoverImageURL
	if cover == "" {
		cover = DefaultCoverImageURL
	}
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return response_models.PostSummary{
		ID:            p.ID.String(),
		Slug:          p.Slug,
		Title:         p.Title,
		Summary:       utils.Summarize(p.Content, utils.SummaryLength),
		CoverImageURL: cover,
		Tags:          tags,
		AuthorID:      p.AuthorID.String(),
		AuthorName:    author,
		PublishedAt:   p.PublishedAt,
	}
}

func toPostSummaries(posts []db_models.Post) []response_models.PostSummary {
	out := make([]response_models.PostSummary, 0, len(posts))
	for i := range posts {
		out = append(out, toPostSummary(&posts[i]))
	}
	return out
}

func toPostDetail(p *db_models.Post) response_models.PostDetail {
	return response_models.PostDetail{
		PostSummary: toPostSummary(p),
		Content:     p.Content,
		UpdatedAt:   p.UpdatedAt,
	}
}
