package repositories

import (
	"context"
	"fmt"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update writes only the named columns of u.
	Update(ctx context.Context, u *models.User, columns ...string) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	const op = "repositories.users.Create"
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	const op = "repositories.users.GetByID"
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repositories.users.GetByEmail"
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User, columns ...string) error {
	const op = "repositories.users.Update"
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(u).Select(columns).Updates(u).Error; err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}
