package models

import "time"

// RevokedToken records a logged-out access token jti when no redis is configured.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

func NewRevokedToken(jti string, ttl time.Duration) *RevokedToken {
	now := time.Now()
	return &RevokedToken{ID: jti, RevokedAt: now, ExpiresAt: now.Add(ttl)}
}
