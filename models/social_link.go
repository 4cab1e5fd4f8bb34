package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialPlatforms lists the platforms accepted for social links.
var SocialPlatforms = []string{
	"OnlyFans", "Fansly", "Twitter", "Instagram", "Facebook", "YouTube", "Twitch", "Reddit",
}

type SocialLink struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	Platform  string    `gorm:"size:32;not null" json:"platform"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SocialLink) TableName() string {
	return "social_links"
}

func (s *SocialLink) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
