package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogpress/internal/models/db_models"
)

type PostEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *db_models.PostEmbedding) error
	FindByPostID(ctx context.Context, postID uuid.UUID) (*db_models.PostEmbedding, error)
	NearestPostIDs(ctx context.Context, vector pgvector.Vector, model string, exclude uuid.UUID, limit int) ([]uuid.UUID, error)
}

type postEmbeddingRepository struct {
	db *gorm.DB
}

func NewPostEmbeddingRepository(db *gorm.DB) PostEmbeddingRepository {
	return &postEmbeddingRepository{db: db}
}

func (r *postEmbeddingRepository) Upsert(ctx context.Context, embedding *db_models.PostEmbedding) error {
	return r.db.WithContext(ctx).
		Omit("Post").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "model", "updated_at"}),
		}).
		Create(embedding).Error
}

func (r *postEmbeddingRepository) FindByPostID(ctx context.Context, postID uuid.UUID) (*db_models.PostEmbedding, error) {
	var rows []db_models.PostEmbedding
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// NearestPostIDs orders posts embedded with the same model by cosine distance.
func (r *postEmbeddingRepository) NearestPostIDs(ctx context.Context, vector pgvector.Vector, model string, exclude uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.PostEmbedding{}).
		Where("model = ? AND post_id <> ?", model, exclude).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{vector}}).
		Limit(limit).
		Pluck("post_id", &ids).Error
	return ids, err
}
