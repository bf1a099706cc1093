package response_models

type DashboardReport struct {
	Posts            int64            `json:"posts"`
	Accounts         int64            `json:"accounts"`
	Feedback         int64            `json:"feedback"`
	FeedbackByStatus map[string]int64 `json:"feedback_by_status"`
	AverageRating    float64          `json:"average_rating"`
	ContactMessages  int64            `json:"contact_messages"`
	Outbox           map[string]int64 `json:"outbox"`
	TopRatedPosts    []RatedPost      `json:"top_rated_posts"`
}

type RatedPost struct {
	PostID        string  `json:"post_id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"average_rating"`
	Ratings       int64   `json:"ratings"`
}
