package repositories

import (
	"context"
	"fmt"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

type WinRepository interface {
	Create(ctx context.Context, w *models.Win) error
	GetByID(ctx context.Context, id string) (*models.Win, error)
	// ListByUser returns the user's wins newest first with roulette and creator preloaded.
	ListByUser(ctx context.Context, userID string) ([]models.Win, error)
	// MarkClaimed flips claimed to true only if it is still false.
	MarkClaimed(ctx context.Context, id string) (bool, error)
}

type winRepo struct {
	db *gorm.DB
}

func (r *winRepo) Create(ctx context.Context, w *models.Win) error {
	const op = "repositories.wins.Create"
	if err := r.db.WithContext(ctx).Omit("User", "Roulette").Create(w).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *winRepo) GetByID(ctx context.Context, id string) (*models.Win, error) {
	const op = "repositories.wins.GetByID"
	var w models.Win
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &w, nil
}

func (r *winRepo) ListByUser(ctx context.Context, userID string) ([]models.Win, error) {
	const op = "repositories.wins.ListByUser"
	var out []models.Win
	err := r.db.WithContext(ctx).
		Preload("Roulette").
		Preload("Roulette.Creator").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *winRepo) MarkClaimed(ctx context.Context, id string) (bool, error) {
	const op = "repositories.wins.MarkClaimed"
	res := r.db.WithContext(ctx).Model(&models.Win{}).
		Where("id = ? AND claimed = ?", id, false).
		Update("claimed", true)
	if res.Error != nil {
		return false, fmt.Errorf("%s: %w", op, res.Error)
	}
	return res.RowsAffected == 1, nil
}
