package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessCode grants a bounded number of spins on one roulette.
// 0 <= SpinsLeft <= TotalSpins; IsUsed is true exactly when SpinsLeft reaches 0.
type AccessCode struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RouletteID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_access_codes_roulette_code,priority:1" json:"rouletteId"`
	Code       string     `gorm:"size:8;not null;uniqueIndex:idx_access_codes_roulette_code,priority:2" json:"code"`
	SpinsLeft  int        `gorm:"not null" json:"spinsLeft"`
	TotalSpins int        `gorm:"not null" json:"totalSpins"`
	IsUsed     bool       `gorm:"not null;default:false;index" json:"isUsed"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Roulette *Roulette `gorm:"foreignKey:RouletteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AccessCode) TableName() string {
	return "access_codes"
}

func (a *AccessCode) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the code has an expiry strictly before now.
func (a *AccessCode) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
