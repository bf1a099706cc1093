package services

import (
	"context"

	"blogpress/internal/repositories"
	"blogpress/pkg/utils"
)

type TagResponse struct {
	Tag   string `json:"tag"`
	Posts int64  `json:"posts"`
}

type TagServiceInterface interface {
	ListTags(ctx context.Context) ([]TagResponse, error)
}

type TagService struct {
	tagRepo repositories.TagRepositoryInterface
}

func NewTagService(tagRepo repositories.TagRepositoryInterface) TagServiceInterface {
	return &TagService{tagRepo: tagRepo}
}

// ListTags returns distinct post tags in alphabetical order.
func (t *TagService) ListTags(ctx context.Context) ([]TagResponse, error) {
	tags, err := t.tagRepo.ListTags(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("list tags", err)
	}

	out := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagResponse{Tag: tag.Tag, Posts: tag.Posts})
	}
	return out, nil
}
