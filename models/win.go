package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Win stores a copy of the prize item at the time it was won.
type Win struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	RouletteID string    `gorm:"type:varchar(36);not null;index" json:"rouletteId"`
	Prize      PrizeItem `gorm:"type:text;serializer:json;not null" json:"prize"`
	Claimed    bool      `gorm:"not null;default:false" json:"claimed"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Roulette *Roulette `gorm:"foreignKey:RouletteID;constraint:OnDelete:CASCADE" json:"roulette,omitempty"`
}

func (Win) TableName() string {
	return "wins"
}

func (w *Win) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
