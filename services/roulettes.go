package services

import (
	"context"
	"strings"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"

	"github.com/google/uuid"
)

type RouletteService struct {
	store repositories.Store
}

func NewRouletteService(store repositories.Store) *RouletteService {
	return &RouletteService{store: store}
}

type RouletteInput struct {
	Name        string
	Description *string
	Items       []models.PrizeItem
	Packages    []models.PricePackage
	Likes       *int
}

// RoulettePatch holds the fields to change; nil fields are left untouched.
// An empty Description clears it.
type RoulettePatch struct {
	Name        *string
	Description *string
	Items       *[]models.PrizeItem
	Packages    *[]models.PricePackage
}

func (s *RouletteService) Create(ctx context.Context, in RouletteInput, creatorID string) (*models.Roulette, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}
	if len(in.Items) == 0 {
		return nil, invalid("Roulette must have at least one item")
	}
	likes := 0
	if in.Likes != nil {
		if *in.Likes < 0 {
			return nil, invalid("Likes cannot be negative")
		}
		likes = *in.Likes
	}
	packages := in.Packages
	if packages == nil {
		packages = []models.PricePackage{}
	}

	r := &models.Roulette{
		CreatorID:   creatorID,
		Name:        name,
		Description: optionalText(in.Description),
		Items:       withItemIDs(in.Items),
		Packages:    withPackageIDs(packages),
		Likes:       likes,
	}
	if err := s.store.Roulettes().Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RouletteService) Get(ctx context.Context, id string) (*models.Roulette, error) {
	r, err := s.store.Roulettes().GetWithCreator(ctx, id)
	if err != nil {
		return nil, orNotFound(err, msgRouletteNotFound)
	}
	return r, nil
}

func (s *RouletteService) ListAll(ctx context.Context) ([]models.Roulette, error) {
	return s.store.Roulettes().List(ctx)
}

func (s *RouletteService) ListByCreator(ctx context.Context, creatorID string) ([]models.Roulette, error) {
	return s.store.Roulettes().ListByCreator(ctx, creatorID)
}

// ownedRoulette loads a roulette and checks that callerID created it.
func ownedRoulette(ctx context.Context, store repositories.Store, id, callerID, denied string) (*models.Roulette, error) {
	r, err := store.Roulettes().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, msgRouletteNotFound)
	}
	if r.CreatorID != callerID {
		return nil, unauthorized(denied)
	}
	return r, nil
}

func (s *RouletteService) Update(ctx context.Context, id string, patch RoulettePatch, callerID string) (*models.Roulette, error) {
	r, err := ownedRoulette(ctx, s.store, id, callerID, "You can only update your own roulettes")
	if err != nil {
		return nil, err
	}

	var columns []string
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("Name is required")
		}
		r.Name = name
		columns = append(columns, "name")
	}
	if patch.Description != nil {
		r.Description = optionalText(patch.Description)
		columns = append(columns, "description")
	}
	if patch.Items != nil {
		if len(*patch.Items) == 0 {
			return nil, invalid("Roulette must have at least one item")
		}
		r.Items = withItemIDs(*patch.Items)
		columns = append(columns, "items")
	}
	if patch.Packages != nil {
		pkgs := *patch.Packages
		if pkgs == nil {
			pkgs = []models.PricePackage{}
		}
		r.Packages = withPackageIDs(pkgs)
		columns = append(columns, "packages")
	}

	if err := s.store.Roulettes().Update(ctx, r, columns...); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the roulette. Access codes, wins and likes go with it
// through the foreign key cascade.
func (s *RouletteService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := ownedRoulette(ctx, s.store, id, callerID, "You can only delete your own roulettes"); err != nil {
		return err
	}
	if err := s.store.Roulettes().Delete(ctx, id); err != nil {
		return orNotFound(err, msgRouletteNotFound)
	}
	return nil
}

func withItemIDs(items []models.PrizeItem) []models.PrizeItem {
	out := make([]models.PrizeItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		out[i] = it
	}
	return out
}

func withPackageIDs(pkgs []models.PricePackage) []models.PricePackage {
	out := make([]models.PricePackage, len(pkgs))
	for i, p := range pkgs {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		out[i] = p
	}
	return out
}

// optionalText trims s and maps blank text to nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
