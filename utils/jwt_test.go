package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"
)

type memRevoker struct {
	revoked map[string]time.Duration
}

func (m *memRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

func newTestIssuer(rev Revoker) *TokenIssuer {
	return NewTokenIssuer(config.JWTConfig{
		Secret:    "test-secret",
		Audience:  "roulette-web",
		Issuer:    "roulette-api",
		AccessTTL: time.Hour,
	}, rev)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := newTestIssuer(nil)
	tok, exp, err := iss.GenerateAccessToken("user-1", "creator")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	claims, err := iss.ValidateAccessToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "creator" || claims.JTI == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.Unix() != exp.Unix() {
		t.Fatalf("expiry mismatch: %v vs %v", claims.ExpiresAt, exp)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	iss := newTestIssuer(nil)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := iss.GenerateAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	iss.now = time.Now
	if _, err := iss.ValidateAccessToken(context.Background(), tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_RejectsForeignAudienceAndSecret(t *testing.T) {
	other := NewTokenIssuer(config.JWTConfig{Secret: "test-secret", Audience: "someone-else", Issuer: "roulette-api", AccessTTL: time.Hour}, nil)
	tok, _, err := other.GenerateAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if _, err := newTestIssuer(nil).ValidateAccessToken(context.Background(), tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for audience mismatch, got %v", err)
	}

	forged := NewTokenIssuer(config.JWTConfig{Secret: "other-secret", Audience: "roulette-web", Issuer: "roulette-api", AccessTTL: time.Hour}, nil)
	tok, _, err = forged.GenerateAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if _, err := newTestIssuer(nil).ValidateAccessToken(context.Background(), tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}

	if _, err := newTestIssuer(nil).ValidateAccessToken(context.Background(), "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestTokenIssuer_Revoke(t *testing.T) {
	rev := &memRevoker{revoked: map[string]time.Duration{}}
	iss := newTestIssuer(rev)
	ctx := context.Background()

	tok, _, err := iss.GenerateAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	claims, err := iss.ValidateAccessToken(ctx, tok)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if err := iss.Revoke(ctx, claims); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if ttl := rev.revoked[claims.JTI]; ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
	if _, err := iss.ValidateAccessToken(ctx, tok); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}
