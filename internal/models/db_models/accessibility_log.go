package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessibilityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Feature   string    `gorm:"type:text;not null"`
	Action    string    `gorm:"type:text;not null"`
	Value     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (a *AccessibilityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
