package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

type AccessCodeRepository interface {
	Create(ctx context.Context, c *models.AccessCode) error
	GetByID(ctx context.Context, id string) (*models.AccessCode, error)
	// FindUnused looks up the unused code with the given string on a roulette.
	FindUnused(ctx context.Context, rouletteID, code string) (*models.AccessCode, error)
	ListByRoulette(ctx context.Context, rouletteID string) ([]models.AccessCode, error)
	// ConsumeOne atomically takes one spin from the code. It reports false
	// when no spin was left (or the code does not exist).
	ConsumeOne(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type accessCodeRepo struct {
	db *gorm.DB
}

func (r *accessCodeRepo) Create(ctx context.Context, c *models.AccessCode) error {
	const op = "repositories.access_codes.Create"
	if err := r.db.WithContext(ctx).Omit("Roulette").Create(c).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *accessCodeRepo) GetByID(ctx context.Context, id string) (*models.AccessCode, error) {
	const op = "repositories.access_codes.GetByID"
	var c models.AccessCode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &c, nil
}

func (r *accessCodeRepo) FindUnused(ctx context.Context, rouletteID, code string) (*models.AccessCode, error) {
	const op = "repositories.access_codes.FindUnused"
	var c models.AccessCode
	err := r.db.WithContext(ctx).
		Where("roulette_id = ? AND code = ? AND is_used = ?", rouletteID, code, false).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &c, nil
}

func (r *accessCodeRepo) ListByRoulette(ctx context.Context, rouletteID string) ([]models.AccessCode, error) {
	const op = "repositories.access_codes.ListByRoulette"
	var out []models.AccessCode
	if err := r.db.WithContext(ctx).Where("roulette_id = ?", rouletteID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ConsumeOne assigns is_used before spins_left so that every dialect
// (including MySQL, which evaluates SET left to right) sees the old value.
func (r *accessCodeRepo) ConsumeOne(ctx context.Context, id string) (bool, error) {
	const op = "repositories.access_codes.ConsumeOne"
	res := r.db.WithContext(ctx).Exec(
		"UPDATE access_codes SET is_used = (spins_left <= 1), spins_left = spins_left - 1, updated_at = ? WHERE id = ? AND spins_left > 0",
		time.Now(), id,
	)
	if res.Error != nil {
		return false, fmt.Errorf("%s: %w", op, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *accessCodeRepo) Delete(ctx context.Context, id string) error {
	const op = "repositories.access_codes.Delete"
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AccessCode{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	}
	return nil
}
