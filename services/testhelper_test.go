package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/database"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"

	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	svc   *Services
	store *repositories.GormStore
	clock *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	store := repositories.NewGormStore(db)
	svc := New(store, 6)
	svc.Users.hashCost = bcrypt.MinCost
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.SetClock(clock.Now)
	return &testEnv{svc: svc, store: store, clock: clock}
}

func (e *testEnv) mustUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	u, err := e.svc.Users.Register(context.Background(), RegisterInput{
		Email:    email,
		Username: "user-" + email,
		Password: "secret123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return u
}

func (e *testEnv) mustRoulette(t *testing.T, creatorID string) *models.Roulette {
	t.Helper()
	r, err := e.svc.Roulettes.Create(context.Background(), RouletteInput{
		Name: "Spring wheel",
		Items: []models.PrizeItem{
			{ID: "a", Text: "Sticker", Color: "#ff0000", Probability: 3},
			{ID: "b", Text: "Poster", Color: "#00ff00", Probability: 1},
		},
		Packages: []models.PricePackage{{ID: "p1", Name: "Starter", Price: 4.99, Spins: 3}},
	}, creatorID)
	if err != nil {
		t.Fatalf("Create roulette failed: %v", err)
	}
	return r
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func assertKind(t *testing.T, err, kind error, msg string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("unexpected error: got=%v want kind %v", err, kind)
	}
	if msg == "" {
		return
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error is not *services.Error: %v", err)
	}
	if se.Message != msg {
		t.Fatalf("unexpected message: got=%q want=%q", se.Message, msg)
	}
}
