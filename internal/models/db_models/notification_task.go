package db_models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationKind string

const (
	NotificationKindFeedbackWebhook NotificationKind = "feedback_webhook"
	NotificationKindContactEmail    NotificationKind = "contact_email"
)

type NotificationStatus string

const (
	NotificationPending    NotificationStatus = "pending"
	NotificationProcessing NotificationStatus = "processing"
	NotificationDelivered  NotificationStatus = "delivered"
	NotificationFailed     NotificationStatus = "failed"
)

// NotificationTask is one outbound side effect waiting in the outbox.
type NotificationTask struct {
	BaseModel
	Kind           NotificationKind   `gorm:"type:text;not null;index"`
	Payload        datatypes.JSON     `gorm:"type:jsonb;not null"`
	Status         NotificationStatus `gorm:"type:text;not null;default:pending;index:idx_notification_due,priority:1"`
	NextAttemptAt  time.Time          `gorm:"not null;index:idx_notification_due,priority:2"`
	Attempts       int                `gorm:"not null;default:0"`
	LastError      string             `gorm:"type:text"`
	LastStatusCode int
	DeliveredAt    *time.Time
}
