package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"blogpress/internal/models/db_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/utils"
)

// canonical 8-4-4-4-12 hex form only; uuid.Parse also accepts braces, urn
// prefixes and unhyphenated ids, which are treated as slugs here.
var durableKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// PostResolver maps whatever reference a client holds (id, slug or title)
// to the post's durable id.
type PostResolver interface {
	Resolve(ctx context.Context, reference string) (uuid.UUID, error)
}

type postResolver struct {
	posts repositories.PostRepository
}

func NewPostResolver(posts repositories.PostRepository) PostResolver {
	return &postResolver{posts: posts}
}

// Resolve tries, in order: the id fast path (no query), an exact
// case-insensitive title match, the stored slug, and finally the first title
// that contains the reference. Hyphens in the reference stand for spaces in
// the title lookups. The slug step catches titles that contain hyphens.
func (r *postResolver) Resolve(ctx context.Context, reference string) (uuid.UUID, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return uuid.Nil, utils.NewValidationError("post_id", "article reference is required")
	}

	if durableKeyPattern.MatchString(ref) {
		return uuid.MustParse(ref), nil
	}

	title := strings.ReplaceAll(ref, "-", " ")

	lookups := []struct {
		op   string
		find func() (*db_models.Post, error)
	}{
		{"resolve post by title", func() (*db_models.Post, error) { return r.posts.FindByTitleExact(ctx, title) }},
		{"resolve post by slug", func() (*db_models.Post, error) { return r.posts.FindBySlug(ctx, strings.ToLower(ref)) }},
		{"resolve post by title fragment", func() (*db_models.Post, error) { return r.posts.FindFirstByTitleContaining(ctx, title) }},
	}

	for _, lookup := range lookups {
		post, err := lookup.find()
		if err != nil {
			return uuid.Nil, utils.NewPersistenceError(lookup.op, err)
		}
		if post != nil {
			return post.ID, nil
		}
	}

	return uuid.Nil, utils.NewNotFoundError("article", ref)
}
