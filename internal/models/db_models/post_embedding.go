package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PostEmbedding struct {
	PostID    uuid.UUID       `gorm:"type:uuid;primaryKey;column:post_id"`
	Post      *Post           `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Embedding pgvector.Vector `gorm:"type:vector"`
	Model     string          `gorm:"type:text;not null"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}
