package response_models

import "time"

type FeedbackResponse struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	PostTitle   string    `json:"post_title,omitempty"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// FeedbackSubmissionResponse tells the client the record was stored and
// whether the follow-up notification was queued.
type FeedbackSubmissionResponse struct {
	Feedback           FeedbackResponse `json:"feedback"`
	NotificationQueued bool             `json:"notification_queued"`
}

type ContactMessageResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type ContactSubmissionResponse struct {
	ID                 string `json:"id"`
	NotificationQueued bool   `json:"notification_queued"`
}
