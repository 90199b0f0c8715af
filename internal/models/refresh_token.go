package models

import (
	"time"
)

// RefreshToken represents a JWT refresh token in the database
type RefreshToken struct {
	BaseModel
	FacultyID string    `gorm:"size:36;index" json:"facultyId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	Faculty Faculty `gorm:"foreignKey:FacultyID" json:"-"`
}
