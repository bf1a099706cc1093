package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Post struct {
	BaseModel
	Title         string         `gorm:"type:text;not null"`
	Slug          string         `gorm:"type:text;uniqueIndex;not null"`
	Content       string         `gorm:"type:text;not null"`
	CoverImageURL string         `gorm:"column:cover_image_url;type:text"`
	Tags          pq.StringArray `gorm:"type:text[]"`
	PublishedAt   time.Time      `gorm:"not null;index"`
	AuthorID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Author        *Account       `gorm:"foreignKey:AuthorID"`
}
