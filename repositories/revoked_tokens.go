package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired deletes entries whose token would have expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type revokedTokenRepo struct {
	db *gorm.DB
}

func (r *revokedTokenRepo) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "repositories.revoked_tokens.Revoke"
	rec := models.NewRevokedToken(jti, ttl)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"revoked_at", "expires_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *revokedTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var rec models.RevokedToken
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", jti).First(&rec).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("repositories.revoked_tokens.IsRevoked: %w", err)
}

func (r *revokedTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("repositories.revoked_tokens.PurgeExpired: %w", res.Error)
	}
	return res.RowsAffected, nil
}
