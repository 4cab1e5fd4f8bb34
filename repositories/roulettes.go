package repositories

import (
	"context"
	"fmt"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

type RouletteRepository interface {
	Create(ctx context.Context, r *models.Roulette) error
	GetByID(ctx context.Context, id string) (*models.Roulette, error)
	// GetWithCreator is GetByID with the creator preloaded.
	GetWithCreator(ctx context.Context, id string) (*models.Roulette, error)
	// List returns every roulette, newest first, with creators preloaded.
	List(ctx context.Context) ([]models.Roulette, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Roulette, error)
	Update(ctx context.Context, r *models.Roulette, columns ...string) error
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	// DecrementLikes lowers the counter by one but never below zero.
	DecrementLikes(ctx context.Context, id string) error
}

type rouletteRepo struct {
	db *gorm.DB
}

func (r *rouletteRepo) Create(ctx context.Context, rl *models.Roulette) error {
	const op = "repositories.roulettes.Create"
	if err := r.db.WithContext(ctx).Omit("Creator").Create(rl).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *rouletteRepo) GetByID(ctx context.Context, id string) (*models.Roulette, error) {
	const op = "repositories.roulettes.GetByID"
	var rl models.Roulette
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rl).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &rl, nil
}

func (r *rouletteRepo) GetWithCreator(ctx context.Context, id string) (*models.Roulette, error) {
	const op = "repositories.roulettes.GetWithCreator"
	var rl models.Roulette
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&rl).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &rl, nil
}

func (r *rouletteRepo) List(ctx context.Context) ([]models.Roulette, error) {
	const op = "repositories.roulettes.List"
	var out []models.Roulette
	if err := r.db.WithContext(ctx).Preload("Creator").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *rouletteRepo) ListByCreator(ctx context.Context, creatorID string) ([]models.Roulette, error) {
	const op = "repositories.roulettes.ListByCreator"
	var out []models.Roulette
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *rouletteRepo) Update(ctx context.Context, rl *models.Roulette, columns ...string) error {
	const op = "repositories.roulettes.Update"
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(rl).Select(columns).Updates(rl).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *rouletteRepo) Delete(ctx context.Context, id string) error {
	const op = "repositories.roulettes.Delete"
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Roulette{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	}
	return nil
}

func (r *rouletteRepo) IncrementLikes(ctx context.Context, id string) error {
	const op = "repositories.roulettes.IncrementLikes"
	err := r.db.WithContext(ctx).Model(&models.Roulette{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *rouletteRepo) DecrementLikes(ctx context.Context, id string) error {
	const op = "repositories.roulettes.DecrementLikes"
	err := r.db.WithContext(ctx).Model(&models.Roulette{}).
		Where("id = ? AND likes > 0", id).
		UpdateColumn("likes", gorm.Expr("likes - 1")).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
