package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackStatusNew      = "new"
	FeedbackStatusReviewed = "reviewed"
	FeedbackStatusArchived = "archived"
)

// Feedback is a reader's rating of one post. PostID always holds the post's
// durable id, never a slug or title.
type Feedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Post        *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:",omitempty"`
	Name        *string   `gorm:"type:text"`
	Email       *string   `gorm:"type:text"`
	Comment     *string   `gorm:"type:text"`
	Rating      int       `gorm:"not null;check:chk_feedback_rating,rating >= 1 AND rating <= 5"`
	Status      string    `gorm:"type:text;not null;default:new;index"`
	SubmittedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Status == "" {
		f.Status = FeedbackStatusNew
	}
	return nil
}

func IsFeedbackStatus(s string) bool {
	switch s {
	case FeedbackStatusNew, FeedbackStatusReviewed, FeedbackStatusArchived:
		return true
	}
	return false
}
