package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrizeItem is one segment of the wheel. Probability is a relative weight;
// weights of a wheel are not required to sum to 1.
type PrizeItem struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Color       string  `json:"color"`
	Probability float64 `json:"probability"`
}

type PricePackage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Spins       int     `json:"spins"`
	Description *string `json:"description,omitempty"`
	IsPopular   bool    `json:"isPopular,omitempty"`
}

type Roulette struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatorID   string         `gorm:"type:varchar(36);not null;index" json:"creatorId"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Items       []PrizeItem    `gorm:"type:text;serializer:json;not null" json:"items"`
	Packages    []PricePackage `gorm:"type:text;serializer:json" json:"packages"`
	Likes       int            `gorm:"not null;default:0" json:"likes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Creator *User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}

func (Roulette) TableName() string {
	return "roulettes"
}

func (r *Roulette) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// MarshalJSON replaces the preloaded creator with its public profile so
// roulette listings never carry the creator's email.
func (r Roulette) MarshalJSON() ([]byte, error) {
	type plain Roulette
	return json.Marshal(struct {
		plain
		Creator *PublicProfile `json:"creator,omitempty"`
	}{plain: plain(r), Creator: r.Creator.Public()})
}

// ItemByID returns the prize item with the given id.
func (r *Roulette) ItemByID(id string) (PrizeItem, bool) {
	for _, it := range r.Items {
		if it.ID == id {
			return it, true
		}
	}
	return PrizeItem{}, false
}
