package request_models

// SubmitFeedbackRequest accepts either a post id or a slug/title in PostID.
type SubmitFeedbackRequest struct {
	PostID  string  `json:"post_id"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type UpdateFeedbackStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new reviewed archived"`
}
