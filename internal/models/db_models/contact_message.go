package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactMessage struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:text;not null"`
	Email   string    `gorm:"type:text;not null"`
	Subject string    `gorm:"type:text;not null"`
	Message string    `gorm:"type:text;not null"`
	SentAt  time.Time `gorm:"autoCreateTime;index"`
}

func (c *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
