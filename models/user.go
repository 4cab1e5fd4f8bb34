package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCreator = "creator"
	RoleUser    = "user"
)

type User struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username    string    `gorm:"size:100;not null" json:"username"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        string    `gorm:"size:16;not null;default:user" json:"role"`
	Avatar      *string   `gorm:"size:512" json:"avatar,omitempty"`
	SocialLink  *string   `gorm:"size:512" json:"socialLink,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsCreator() bool {
	return u.Role == RoleCreator
}

// PublicProfile is the part of an account shown next to content it owns.
type PublicProfile struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Avatar     *string `json:"avatar,omitempty"`
	SocialLink *string `json:"socialLink,omitempty"`
}

// Public returns nil for a nil user.
func (u *User) Public() *PublicProfile {
	if u == nil {
		return nil
	}
	return &PublicProfile{
		ID:         u.ID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		SocialLink: u.SocialLink,
	}
}
