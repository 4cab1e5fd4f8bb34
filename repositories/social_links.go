package repositories

import (
	"context"
	"fmt"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

type SocialLinkRepository interface {
	Create(ctx context.Context, l *models.SocialLink) error
	GetByID(ctx context.Context, id string) (*models.SocialLink, error)
	ListByUser(ctx context.Context, userID string) ([]models.SocialLink, error)
	Update(ctx context.Context, l *models.SocialLink, columns ...string) error
	Delete(ctx context.Context, id string) error
}

type socialLinkRepo struct {
	db *gorm.DB
}

func (r *socialLinkRepo) Create(ctx context.Context, l *models.SocialLink) error {
	const op = "repositories.social_links.Create"
	if err := r.db.WithContext(ctx).Omit("User").Create(l).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *socialLinkRepo) GetByID(ctx context.Context, id string) (*models.SocialLink, error) {
	const op = "repositories.social_links.GetByID"
	var l models.SocialLink
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &l, nil
}

func (r *socialLinkRepo) ListByUser(ctx context.Context, userID string) ([]models.SocialLink, error) {
	const op = "repositories.social_links.ListByUser"
	var out []models.SocialLink
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *socialLinkRepo) Update(ctx context.Context, l *models.SocialLink, columns ...string) error {
	const op = "repositories.social_links.Update"
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(l).Select(columns).Updates(l).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *socialLinkRepo) Delete(ctx context.Context, id string) error {
	const op = "repositories.social_links.Delete"
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SocialLink{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	}
	return nil
}
