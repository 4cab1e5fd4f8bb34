package services

import (
	"context"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

type WinService struct {
	store repositories.Store
}

func NewWinService(store repositories.Store) *WinService {
	return &WinService{store: store}
}

// Record stores a prize snapshot for userID. The prize must be one of the
// roulette's items and the snapshot is taken from the stored wheel, not from
// the caller. It does not check that the caller spent an access code;
// SpinService.Spin is the path that does.
func (s *WinService) Record(ctx context.Context, rouletteID, userID string, prize models.PrizeItem) (*models.Win, error) {
	r, err := s.store.Roulettes().GetByID(ctx, rouletteID)
	if err != nil {
		return nil, orNotFound(err, msgRouletteNotFound)
	}
	item, ok := r.ItemByID(prize.ID)
	if !ok {
		return nil, invalid("Prize is not part of this roulette")
	}
	w := &models.Win{
		UserID:     userID,
		RouletteID: rouletteID,
		Prize:      item,
		Claimed:    false,
	}
	if err := s.store.Wins().Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WinService) ListByUser(ctx context.Context, userID string) ([]models.Win, error) {
	return s.store.Wins().ListByUser(ctx, userID)
}

// Claim marks the caller's win as claimed. It succeeds at most once per win.
func (s *WinService) Claim(ctx context.Context, winID, callerID string) (*models.Win, error) {
	w, err := s.store.Wins().GetByID(ctx, winID)
	if err != nil {
		return nil, orNotFound(err, msgWinNotFound)
	}
	if w.UserID != callerID {
		return nil, unauthorized("You can only claim your own wins")
	}
	if w.Claimed {
		return nil, unauthorized(msgAlreadyClaimed)
	}
	ok, err := s.store.Wins().MarkClaimed(ctx, winID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, unauthorized(msgAlreadyClaimed)
	}
	w.Claimed = true
	return w, nil
}
