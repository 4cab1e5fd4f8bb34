package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CodeAlphabet omits characters that are easy to confuse when typed (0/O, 1/I).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const maxIssueAttempts = 5

type AccessCodeService struct {
	store      repositories.Store
	now        func() time.Time
	codeLength int
	generate   func(alphabet string, size int) (string, error)
}

func NewAccessCodeService(store repositories.Store, codeLength int) *AccessCodeService {
	if codeLength <= 0 {
		codeLength = 6
	}
	return &AccessCodeService{
		store:      store,
		now:        time.Now,
		codeLength: codeLength,
		generate:   gonanoid.Generate,
	}
}

type IssueInput struct {
	RouletteID    string
	TotalSpins    int
	ExpiresInDays *int
}

// Verification is what a successful Verify reveals about a code. It never
// includes the code string itself.
type Verification struct {
	ID         string
	SpinsLeft  int
	TotalSpins int
	ExpiresAt  *time.Time
}

// NormalizeCode trims and upper-cases a user-typed code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Issue creates a code for a roulette owned by callerID. A generated string
// that already exists on the same roulette is regenerated.
func (s *AccessCodeService) Issue(ctx context.Context, in IssueInput, callerID string) (*models.AccessCode, error) {
	if in.TotalSpins < 1 {
		return nil, invalid("Total spins must be at least 1")
	}
	if in.ExpiresInDays != nil && *in.ExpiresInDays < 1 {
		return nil, invalid("Expiry must be at least 1 day")
	}
	if _, err := ownedRoulette(ctx, s.store, in.RouletteID, callerID, "You can only create codes for your own roulettes"); err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if in.ExpiresInDays != nil {
		t := s.now().AddDate(0, 0, *in.ExpiresInDays)
		expiresAt = &t
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := s.generate(CodeAlphabet, s.codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate access code: %w", err)
		}
		ac := &models.AccessCode{
			RouletteID: in.RouletteID,
			Code:       code,
			SpinsLeft:  in.TotalSpins,
			TotalSpins: in.TotalSpins,
			IsUsed:     false,
			ExpiresAt:  expiresAt,
		}
		err = s.store.AccessCodes().Create(ctx, ac)
		if err == nil {
			return ac, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, conflict("Could not generate a unique code, please retry")
}

// Verify checks that an unused code exists for the roulette and can still be spent.
func (s *AccessCodeService) Verify(ctx context.Context, rouletteID, code string) (*Verification, error) {
	ac, err := s.store.AccessCodes().FindUnused(ctx, rouletteID, NormalizeCode(code))
	if err != nil {
		return nil, orNotFound(err, msgInvalidCode)
	}
	if ac.SpinsLeft <= 0 {
		return nil, unauthorized(msgNoSpins)
	}
	if ac.Expired(s.now()) {
		return nil, unauthorized(msgCodeExpired)
	}
	return &Verification{
		ID:         ac.ID,
		SpinsLeft:  ac.SpinsLeft,
		TotalSpins: ac.TotalSpins,
		ExpiresAt:  ac.ExpiresAt,
	}, nil
}

// Consume takes one spin from the code. An existing code with no spins
// left is rejected instead of going below zero.
func (s *AccessCodeService) Consume(ctx context.Context, codeID string) (*models.AccessCode, error) {
	var out *models.AccessCode
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		ok, err := tx.AccessCodes().ConsumeOne(ctx, codeID)
		if err != nil {
			return err
		}
		ac, err := tx.AccessCodes().GetByID(ctx, codeID)
		if err != nil {
			return orNotFound(err, msgCodeNotFound)
		}
		if !ok {
			return unauthorized(msgNoSpins)
		}
		out = ac
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revoke deletes a code. Only the creator of the code's roulette may do so.
func (s *AccessCodeService) Revoke(ctx context.Context, codeID, callerID string) error {
	if _, err := s.GetOwned(ctx, codeID, callerID); err != nil {
		return err
	}
	if err := s.store.AccessCodes().Delete(ctx, codeID); err != nil {
		return orNotFound(err, msgCodeNotFound)
	}
	return nil
}

// GetOwned returns a code after checking that callerID created its roulette.
func (s *AccessCodeService) GetOwned(ctx context.Context, codeID, callerID string) (*models.AccessCode, error) {
	ac, err := s.store.AccessCodes().GetByID(ctx, codeID)
	if err != nil {
		return nil, orNotFound(err, msgCodeNotFound)
	}
	if _, err := ownedRoulette(ctx, s.store, ac.RouletteID, callerID, "You can only manage codes of your own roulettes"); err != nil {
		return nil, err
	}
	return ac, nil
}

// ListForRoulette returns the roulette's codes, newest first.
func (s *AccessCodeService) ListForRoulette(ctx context.Context, rouletteID, callerID string) ([]models.AccessCode, error) {
	if _, err := ownedRoulette(ctx, s.store, rouletteID, callerID, "You can only view codes of your own roulettes"); err != nil {
		return nil, err
	}
	return s.store.AccessCodes().ListByRoulette(ctx, rouletteID)
}
