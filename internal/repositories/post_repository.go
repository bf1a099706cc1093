package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"blogpress/internal/models/db_models"
	"blogpress/pkg/utils"
)

// ErrSlugTaken reports that another post claimed the slug between the
// existence check and the insert.
var ErrSlugTaken = errors.New("slug already taken")

type PostFilter struct {
	Query    string
	Tag      string
	Page     int
	PageSize int
}

type PostRepository interface {
	ListPosts(ctx context.Context, filter PostFilter) ([]db_models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]db_models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Post, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*db_models.Post, error)
	FindByTitleExact(ctx context.Context, title string) (*db_models.Post, error)
	FindFirstByTitleContaining(ctx context.Context, fragment string) (*db_models.Post, error)
	FindRelatedByTags(ctx context.Context, id uuid.UUID, tags []string, limit int) ([]db_models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post *db_models.Post) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// newestFirst is the canonical post ordering; id breaks ties so pages and
// fuzzy lookups are stable.
const newestFirst = "published_at DESC, id ASC"

func postFilterScope(f PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(f.Query); q != "" {
			pattern := "%" + utils.EscapeLike(q) + "%"
			db = db.Where("(title ILIKE ? OR content ILIKE ?)", pattern, pattern)
		}
		if tag := strings.TrimSpace(f.Tag); tag != "" {
			db = db.Where("? = ANY(tags)", tag)
		}
		return db
	}
}

func withAuthorName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func (r *postRepository) ListPosts(ctx context.Context, filter PostFilter) ([]db_models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.Post{}).Scopes(postFilterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Scopes(postFilterScope(filter)).
		Preload("Author", withAuthorName).
		Order(newestFirst).
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]db_models.Post, error) {
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", withAuthorName).
		Where("author_id = ?", authorID).
		Order(newestFirst).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) takeOne(ctx context.Context, query string, args ...interface{}) (*db_models.Post, error) {
	var post db_models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", withAuthorName).
		Where(query, args...).
		Order(newestFirst).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Post, error) {
	return r.takeOne(ctx, "id = ?", id)
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", withAuthorName).
		Where("id IN ?", ids).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*db_models.Post, error) {
	return r.takeOne(ctx, "slug = ?", slug)
}

func (r *postRepository) FindByTitleExact(ctx context.Context, title string) (*db_models.Post, error) {
	return r.takeOne(ctx, "LOWER(title) = LOWER(?)", title)
}

func (r *postRepository) FindFirstByTitleContaining(ctx context.Context, fragment string) (*db_models.Post, error) {
	return r.takeOne(ctx, "title ILIKE ?", "%"+utils.EscapeLike(fragment)+"%")
}

func (r *postRepository) FindRelatedByTags(ctx context.Context, id uuid.UUID, tags []string, limit int) ([]db_models.Post, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", withAuthorName).
		Where("id <> ? AND tags && ?", id, pq.StringArray(tags)).
		Order(newestFirst).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Post{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

// Create needs the connection opened with TranslateError so unique
// violations surface as gorm.ErrDuplicatedKey.
func (r *postRepository) Create(ctx context.Context, post *db_models.Post) error {
	err := r.db.WithContext(ctx).Omit("Author").Create(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *postRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&db_models.Post{}).Where("id = ?", id).Updates(updates).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&db_models.Post{})
	return res.RowsAffected > 0, res.Error
}
