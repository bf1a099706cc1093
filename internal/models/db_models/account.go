package db_models

// Account is a registered author/reader profile. IsAdmin gates the review surface.
type Account struct {
	BaseModel
	Name         string `gorm:"type:text;not null"`
	Email        string `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false"`
}
