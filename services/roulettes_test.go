package services

import (
	"context"
	"errors"
	"testing"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

func TestRoulette_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.mustUser(t, "creator@example.com", "creator")

	r, err := env.svc.Roulettes.Create(ctx, RouletteInput{
		Name:  "No ids",
		Items: []models.PrizeItem{{Text: "Hug", Color: "#fff", Probability: 0.5}},
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Likes != 0 {
		t.Fatalf("likes should default to 0, got %d", r.Likes)
	}
	if r.Items[0].ID == "" {
		t.Fatalf("item id should be assigned")
	}

	got, err := env.svc.Roulettes.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Creator == nil || got.Creator.ID != creator.ID {
		t.Fatalf("creator not preloaded: %+v", got.Creator)
	}
	if len(got.Items) != 1 || got.Items[0].Text != "Hug" || got.Items[0].Probability != 0.5 {
		t.Fatalf("items not round-tripped: %+v", got.Items)
	}
	if got.Packages == nil {
		t.Fatalf("packages should be an empty list, not nil")
	}

	_, err = env.svc.Roulettes.Get(ctx, "missing")
	assertKind(t, err, ErrNotFound, "Roulette not found")

	_, err = env.svc.Roulettes.Create(ctx, RouletteInput{Name: "Empty"}, creator.ID)
	assertKind(t, err, ErrInvalid, "")
}

func TestRoulette_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "a@example.com", "creator")
	b := env.mustUser(t, "b@example.com", "creator")
	first := env.mustRoulette(t, a.ID)
	second := env.mustRoulette(t, b.ID)
	third := env.mustRoulette(t, a.ID)

	all, err := env.svc.Roulettes.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatalf("unexpected order: %v", rouletteIDs(all))
	}
	if all[1].ID != second.ID || all[1].Creator == nil {
		t.Fatalf("expected creator preloaded on list")
	}

	mine, err := env.svc.Roulettes.ListByCreator(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != third.ID || mine[1].ID != first.ID {
		t.Fatalf("unexpected creator list: %v", rouletteIDs(mine))
	}
}

func rouletteIDs(rs []models.Roulette) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestRoulette_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.mustUser(t, "creator@example.com", "creator")
	other := env.mustUser(t, "other@example.com", "creator")
	r := env.mustRoulette(t, creator.ID)

	_, err := env.svc.Roulettes.Update(ctx, "missing", RoulettePatch{Name: strPtr("x")}, other.ID)
	assertKind(t, err, ErrNotFound, "")

	_, err = env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Name: strPtr("Stolen")}, other.ID)
	assertKind(t, err, ErrUnauthorized, "")

	if _, err := env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Description: strPtr("Now with posters")}, creator.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := env.store.Roulettes().GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Spring wheel" {
		t.Fatalf("name should be untouched, got %q", got.Name)
	}
	if got.Description == nil || *got.Description != "Now with posters" {
		t.Fatalf("description not updated: %v", got.Description)
	}
	if len(got.Items) != 2 || len(got.Packages) != 1 {
		t.Fatalf("items/packages should be untouched: %+v %+v", got.Items, got.Packages)
	}

	items := []models.PrizeItem{{ID: "z", Text: "Mug", Color: "#000", Probability: 1}}
	if _, err := env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Items: &items}, creator.ID); err != nil {
		t.Fatalf("Update items failed: %v", err)
	}
	got, _ = env.store.Roulettes().GetByID(ctx, r.ID)
	if len(got.Items) != 1 || got.Items[0].Text != "Mug" {
		t.Fatalf("items not replaced: %+v", got.Items)
	}
}

func TestRoulette_DeleteByNonOwnerKeepsData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "a@example.com", "creator")
	b := env.mustUser(t, "b@example.com", "creator")
	r := env.mustRoulette(t, a.ID)
	ac, err := env.svc.AccessCodes.Issue(ctx, IssueInput{RouletteID: r.ID, TotalSpins: 2}, a.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	err = env.svc.Roulettes.Delete(ctx, r.ID, b.ID)
	assertKind(t, err, ErrUnauthorized, "")

	if _, err := env.store.Roulettes().GetByID(ctx, r.ID); err != nil {
		t.Fatalf("roulette should remain: %v", err)
	}
	if _, err := env.store.AccessCodes().GetByID(ctx, ac.ID); err != nil {
		t.Fatalf("access code should remain: %v", err)
	}
}

func TestRoulette_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.mustUser(t, "creator@example.com", "creator")
	fan := env.mustUser(t, "fan@example.com", "user")
	r := env.mustRoulette(t, creator.ID)

	ac, err := env.svc.AccessCodes.Issue(ctx, IssueInput{RouletteID: r.ID, TotalSpins: 2}, creator.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := env.svc.Likes.Like(ctx, r.ID, fan.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	w, err := env.svc.Wins.Record(ctx, r.ID, fan.ID, r.Items[0])
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := env.svc.Roulettes.Delete(ctx, r.ID, creator.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.store.AccessCodes().GetByID(ctx, ac.ID); !errors.Is(err, repositories.ErrRecordNotFound) {
		t.Fatalf("access code should be cascaded, err=%v", err)
	}
	if _, err := env.store.Wins().GetByID(ctx, w.ID); !errors.Is(err, repositories.ErrRecordNotFound) {
		t.Fatalf("win should be cascaded, err=%v", err)
	}
	ids, err := env.svc.Likes.ListLikedRouletteIDs(ctx, fan.ID)
	if err != nil || len(ids) != 0 {
		t.Fatalf("likes should be cascaded: ids=%v err=%v", ids, err)
	}
}

func TestRoulette_UpdateClearsDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.mustUser(t, "creator@example.com", "creator")
	r := env.mustRoulette(t, creator.ID)

	if _, err := env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Description: strPtr("  Spring prizes ")}, creator.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := env.store.Roulettes().GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Description == nil || *got.Description != "Spring prizes" {
		t.Fatalf("description should be trimmed, got %v", got.Description)
	}

	if _, err := env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Description: strPtr("")}, creator.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err = env.store.Roulettes().GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Description != nil {
		t.Fatalf("empty description should clear it, got %q", *got.Description)
	}

	// absent field leaves the cleared value alone
	if _, err := env.svc.Roulettes.Update(ctx, r.ID, RoulettePatch{Name: strPtr("Summer wheel")}, creator.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ = env.store.Roulettes().GetByID(ctx, r.ID)
	if got.Name != "Summer wheel" || got.Description != nil {
		t.Fatalf("unexpected roulette after name update: %q %v", got.Name, got.Description)
	}
}
