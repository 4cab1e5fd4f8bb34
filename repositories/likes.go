package repositories

import (
	"context"
	"fmt"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Insert adds the (user, roulette) like if absent and reports whether a row was created.
	Insert(ctx context.Context, userID, rouletteID string) (bool, error)
	// Delete removes the like if present and reports whether a row was removed.
	Delete(ctx context.Context, userID, rouletteID string) (bool, error)
	ListRouletteIDs(ctx context.Context, userID string) ([]string, error)
	CountByRoulette(ctx context.Context, rouletteID string) (int64, error)
}

type likeRepo struct {
	db *gorm.DB
}

func (r *likeRepo) Insert(ctx context.Context, userID, rouletteID string) (bool, error) {
	const op = "repositories.likes.Insert"
	like := models.Like{UserID: userID, RouletteID: rouletteID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "roulette_id"}},
			DoNothing: true,
		}).
		Omit("User", "Roulette").
		Create(&like)
	if res.Error != nil {
		return false, fmt.Errorf("%s: %w", op, translate(res.Error))
	}
	return res.RowsAffected == 1, nil
}

func (r *likeRepo) Delete(ctx context.Context, userID, rouletteID string) (bool, error) {
	const op = "repositories.likes.Delete"
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND roulette_id = ?", userID, rouletteID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("%s: %w", op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepo) ListRouletteIDs(ctx context.Context, userID string) ([]string, error) {
	const op = "repositories.likes.ListRouletteIDs"
	ids := []string{}
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID).Pluck("roulette_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

func (r *likeRepo) CountByRoulette(ctx context.Context, rouletteID string) (int64, error) {
	const op = "repositories.likes.CountByRoulette"
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("roulette_id = ?", rouletteID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
