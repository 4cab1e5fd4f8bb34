package services

import (
	"context"

	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

// LikeService keeps Roulette.Likes equal to the number of like rows by
// changing both inside one transaction, and only when a row was actually
// inserted or deleted.
type LikeService struct {
	store repositories.Store
}

func NewLikeService(store repositories.Store) *LikeService {
	return &LikeService{store: store}
}

// Like is idempotent. It reports whether a new like was recorded.
func (s *LikeService) Like(ctx context.Context, rouletteID, userID string) (bool, error) {
	var changed bool
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Roulettes().GetByID(ctx, rouletteID); err != nil {
			return orNotFound(err, msgRouletteNotFound)
		}
		inserted, err := tx.Likes().Insert(ctx, userID, rouletteID)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		changed = true
		return tx.Roulettes().IncrementLikes(ctx, rouletteID)
	})
	return changed, err
}

// Unlike is idempotent; the counter never goes below zero.
func (s *LikeService) Unlike(ctx context.Context, rouletteID, userID string) (bool, error) {
	var changed bool
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		deleted, err := tx.Likes().Delete(ctx, userID, rouletteID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		changed = true
		return tx.Roulettes().DecrementLikes(ctx, rouletteID)
	})
	return changed, err
}

func (s *LikeService) ListLikedRouletteIDs(ctx context.Context, userID string) ([]string, error) {
	return s.store.Likes().ListRouletteIDs(ctx, userID)
}
