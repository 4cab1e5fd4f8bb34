package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is unique per (user, roulette).
type Like struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_roulette,priority:1" json:"userId"`
	RouletteID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_roulette,priority:2;index" json:"rouletteId"`
	CreatedAt  time.Time `json:"createdAt"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Roulette *Roulette `gorm:"foreignKey:RouletteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
