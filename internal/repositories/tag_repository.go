package repositories

import (
	"context"

	"gorm.io/gorm"
)

type TagCount struct {
	Tag   string `gorm:"column:tag"`
	Posts int64  `gorm:"column:posts"`
}

type TagRepositoryInterface interface {
	ListTags(ctx context.Context) ([]TagCount, error)
}

func NewTagRepository(db *gorm.DB) TagRepositoryInterface {
	return &TagRepository{db: db}
}

type TagRepository struct {
	db *gorm.DB
}

// ListTags returns every distinct post tag with the number of posts using it.
func (t *TagRepository) ListTags(ctx context.Context) ([]TagCount, error) {
	var tags []TagCount
	err := t.db.WithContext(ctx).
		Raw(`SELECT tag, COUNT(*) AS posts
			FROM posts, unnest(tags) AS tag
			GROUP BY tag
			ORDER BY tag`).
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
