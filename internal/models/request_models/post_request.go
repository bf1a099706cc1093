package request_models

type CreatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	CoverImageURL string   `json:"cover_image_url"`
	Tags          []string `json:"tags"`
}

// UpdatePostRequest carries a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	CoverImageURL *string   `json:"cover_image_url"`
	Tags          *[]string `json:"tags"`
}

type ListPostsQuery struct {
	Query    string `form:"q"`
	Tag      string `form:"tag"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
