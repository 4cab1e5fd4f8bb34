package services

import (
	"context"
	"errors"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

// SpinService performs a server-side draw: it spends one spin of an access
// code and records the resulting win in the same transaction.
type SpinService struct {
	store repositories.Store
	now   func() time.Time
}

func NewSpinService(store repositories.Store) *SpinService {
	return &SpinService{store: store, now: time.Now}
}

type SpinResult struct {
	Win       *models.Win
	SpinsLeft int
}

func (s *SpinService) Spin(ctx context.Context, rouletteID, codeID, userID string) (*SpinResult, error) {
	var out SpinResult
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		ac, err := tx.AccessCodes().GetByID(ctx, codeID)
		if err != nil {
			return orNotFound(err, msgCodeNotFound)
		}
		if ac.RouletteID != rouletteID {
			return notFound(msgCodeNotFound)
		}
		if ac.Expired(s.now()) {
			return unauthorized(msgCodeExpired)
		}
		r, err := tx.Roulettes().GetByID(ctx, rouletteID)
		if err != nil {
			return orNotFound(err, msgRouletteNotFound)
		}

		prize, err := DrawPrize(r.Items)
		if err != nil {
			if errors.Is(err, ErrNoWinnableItems) {
				return invalid("Roulette has no winnable items")
			}
			return err
		}

		ok, err := tx.AccessCodes().ConsumeOne(ctx, codeID)
		if err != nil {
			return err
		}
		if !ok {
			return unauthorized(msgNoSpins)
		}

		w := &models.Win{UserID: userID, RouletteID: rouletteID, Prize: prize}
		if err := tx.Wins().Create(ctx, w); err != nil {
			return err
		}
		fresh, err := tx.AccessCodes().GetByID(ctx, codeID)
		if err != nil {
			return err
		}
		out.Win = w
		out.SpinsLeft = fresh.SpinsLeft
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
