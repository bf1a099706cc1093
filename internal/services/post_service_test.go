package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/request_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/utils"
)

type embeddingStub struct {
	enabled   bool
	refreshed []uuid.UUID
	related   []uuid.UUID
}

func (e *embeddingStub) Enabled() bool { return e.enabled }

func (e *embeddingStub) Refresh(_ context.Context, post *db_models.Post) error {
	e.refreshed = append(e.refreshed, post.ID)
	return nil
}

func (e *embeddingStub) RefreshAsync(post *db_models.Post) {
	e.refreshed = append(e.refreshed, post.ID)
}

func (e *embeddingStub) RelatedPostIDs(context.Context, uuid.UUID, int) ([]uuid.UUID, error) {
	return e.related, nil
}

var longContent = "<p>" + strings.Repeat("Accessible design helps every reader. ", 6) + "</p>"

func TestCreatePostGeneratesUniqueSlug(t *testing.T) {
	repo := &postRepoStub{posts: []db_models.Post{{Slug: "hello-world"}}}
	embeddings := &embeddingStub{enabled: true}
	svc := NewPostService(repo, embeddings, quietLogger())
	session := &utils.Session{UserID: uuid.New()}

	created, err := svc.CreatePost(context.Background(), session, request_models.CreatePostRequest{
		Title:   "Hello, World!",
		Content: longContent,
		Tags:    []string{"intro", " intro ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", created.Slug)

	require.Len(t, repo.created, 1)
	post := repo.created[0]
	assert.Equal(t, session.UserID, post.AuthorID)
	assert.Equal(t, pq.StringArray{"intro"}, post.Tags)
	assert.False(t, post.PublishedAt.IsZero())
	assert.Equal(t, []uuid.UUID{post.ID}, embeddings.refreshed)
}

func TestCreatePostRetriesWhenSlugIsTakenConcurrently(t *testing.T) {
	repo := &postRepoStub{raced: map[string]bool{"hello-world": true}}
	svc := NewPostService(repo, nil, quietLogger())

	created, err := svc.CreatePost(context.Background(), &utils.Session{UserID: uuid.New()}, request_models.CreatePostRequest{
		Title:   "Hello World",
		Content: longContent,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", created.Slug)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "hello-world-2", repo.created[0].Slug)
}

func TestCreatePostGivesUpAfterRepeatedSlugRaces(t *testing.T) {
	repo := &postRepoStub{raced: map[string]bool{"busy-title": true, "busy-title-2": true, "busy-title-3": true}}
	svc := NewPostService(repo, nil, quietLogger())

	_, err := svc.CreatePost(context.Background(), &utils.Session{UserID: uuid.New()}, request_models.CreatePostRequest{
		Title:   "Busy Title",
		Content: longContent,
	})
	var persistence *utils.PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.ErrorIs(t, err, repositories.ErrSlugTaken)
	assert.Empty(t, repo.created)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewPostService(&postRepoStub{}, nil, quietLogger())
	session := &utils.Session{UserID: uuid.New()}

	_, err := svc.CreatePost(context.Background(), nil, request_models.CreatePostRequest{})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	var validation *utils.ValidationError
	_, err = svc.CreatePost(context.Background(), session, request_models.CreatePostRequest{Title: "Hey", Content: longContent})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "title", validation.Field)

	_, err = svc.CreatePost(context.Background(), session, request_models.CreatePostRequest{Title: "Long enough", Content: "too short"})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "content", validation.Field)
}

func TestUpdatePostKeepsSlugAndChecksOwnership(t *testing.T) {
	author := uuid.New()
	id := uuid.New()
	repo := &postRepoStub{posts: []db_models.Post{{
		BaseModel: db_models.BaseModel{ID: id},
		Title:     "Original title",
		Slug:      "original-title",
		Content:   longContent,
		AuthorID:  author,
	}}}
	svc := NewPostService(repo, nil, quietLogger())
	newTitle := "Completely new title"

	_, err := svc.UpdatePost(context.Background(), &utils.Session{UserID: uuid.New()}, id, request_models.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, utils.ErrForbidden)

	detail, err := svc.UpdatePost(context.Background(), &utils.Session{UserID: author}, id, request_models.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, detail.Title)
	assert.Equal(t, "original-title", detail.Slug)
	assert.Equal(t, newTitle, repo.updates["title"])
	assert.NotContains(t, repo.updates, "slug")
	assert.Contains(t, repo.updates, "updated_at")
}

func TestDeletePostAllowsAdmin(t *testing.T) {
	id := uuid.New()
	repo := &postRepoStub{posts: []db_models.Post{{BaseModel: db_models.BaseModel{ID: id}, AuthorID: uuid.New()}}}
	svc := NewPostService(repo, nil, quietLogger())

	assert.ErrorIs(t, svc.DeletePost(context.Background(), &utils.Session{UserID: uuid.New()}, id), utils.ErrForbidden)
	require.NoError(t, svc.DeletePost(context.Background(), &utils.Session{UserID: uuid.New(), IsAdmin: true}, id))
	assert.Equal(t, []uuid.UUID{id}, repo.deleted)
	assert.ErrorIs(t, svc.DeletePost(context.Background(), &utils.Session{IsAdmin: true}, uuid.New()), utils.ErrNotFound)
}

func TestListPostsSummaryDefaults(t *testing.T) {
	repo := &postRepoStub{posts: []db_models.Post{{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		Title:     "Plain post",
		Content:   "<h1>Hi</h1>\n<p>" + strings.Repeat("x", 200) + "</p>",
	}}}
	svc := NewPostService(repo, nil, quietLogger())

	list, err := svc.ListPosts(context.Background(), request_models.ListPostsQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	item := list.Items[0]
	assert.Equal(t, "Unknown Author", item.AuthorName)
	assert.Equal(t, DefaultCoverImageURL, item.CoverImageURL)
	assert.Equal(t, []string{}, item.Tags)
	assert.True(t, strings.HasPrefix(item.Summary, "Hi xxx"))
	assert.True(t, strings.HasSuffix(item.Summary, "..."))
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.PageSize)

	_, err = svc.ListPosts(context.Background(), request_models.ListPostsQuery{PageSize: 500})
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
}

func TestRelatedPostsPrefersEmbeddings(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo := &postRepoStub{posts: []db_models.Post{
		{BaseModel: db_models.BaseModel{ID: a}, Title: "A", Tags: pq.StringArray{"css"}},
		{BaseModel: db_models.BaseModel{ID: b}, Title: "B", Tags: pq.StringArray{"css"}},
		{BaseModel: db_models.BaseModel{ID: c}, Title: "C", Tags: pq.StringArray{"go"}},
	}}

	tagged, err := NewPostService(repo, &embeddingStub{}, quietLogger()).RelatedPosts(context.Background(), a, 3)
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, b.String(), tagged[0].ID)

	embeddings := &embeddingStub{enabled: true, related: []uuid.UUID{c, b}}
	nearest, err := NewPostService(repo, embeddings, quietLogger()).RelatedPosts(context.Background(), a, 3)
	require.NoError(t, err)
	require.Len(t, nearest, 2)
	assert.Equal(t, c.String(), nearest[0].ID, "neighbour order is preserved")
	assert.Equal(t, b.String(), nearest[1].ID)
}

type embeddingClientStub struct {
	model string
	texts []string
}

func (e *embeddingClientStub) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	e.texts = append(e.texts, text)
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

func (e *embeddingClientStub) Model() string { return e.model }

type embeddingRepoStub struct {
	stored map[uuid.UUID]*db_models.PostEmbedding
}

func (r *embeddingRepoStub) Upsert(_ context.Context, e *db_models.PostEmbedding) error {
	r.stored[e.PostID] = e
	return nil
}

func (r *embeddingRepoStub) FindByPostID(_ context.Context, id uuid.UUID) (*db_models.PostEmbedding, error) {
	return r.stored[id], nil
}

func (r *embeddingRepoStub) NearestPostIDs(_ context.Context, _ pgvector.Vector, model string, exclude uuid.UUID, _ int) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, e := range r.stored {
		if id != exclude && e.Model == model {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestEmbeddingServiceRefreshAndLookup(t *testing.T) {
	client := &embeddingClientStub{model: "text-embedding-3-small"}
	repo := &embeddingRepoStub{stored: map[uuid.UUID]*db_models.PostEmbedding{}}
	svc := NewEmbeddingService(client, repo, quietLogger())

	a := &db_models.Post{BaseModel: db_models.BaseModel{ID: uuid.New()}, Title: "Alt text", Content: "<p>Describe <b>images</b></p>"}
	b := &db_models.Post{BaseModel: db_models.BaseModel{ID: uuid.New()}, Title: "Captions", Content: "<p>Video</p>"}
	require.NoError(t, svc.Refresh(context.Background(), a))
	require.NoError(t, svc.Refresh(context.Background(), b))
	assert.Equal(t, "Alt text\n\nDescribe images", client.texts[0])

	ids, err := svc.RelatedPostIDs(context.Background(), a.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, ids)

	disabled := NewEmbeddingService(nil, repo, quietLogger())
	ids, err = disabled.RelatedPostIDs(context.Background(), a.ID, 5)
	require.NoError(t, err)
	assert.Nil(t, ids)
}
