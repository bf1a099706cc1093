package response_models

import "time"

// PostSummary is the list/card view of a post.
type PostSummary struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	CoverImageURL string    `json:"cover_image_url"`
	Tags          []string  `json:"tags"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	PublishedAt   time.Time `json:"published_at"`
}

type PostDetail struct {
	PostSummary
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostList struct {
	Items    []PostSummary `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type CreatedPost struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}
