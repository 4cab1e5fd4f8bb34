package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const UserIDKey = contextKey("userID")
const UserRoleKey = contextKey("userRole")
const RequestIDKey = contextKey("requestID")

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// AccessClaims is the subset of an access token the handlers care about.
type AccessClaims struct {
	UserID    string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

// TokenIssuer signs and validates HS256 access tokens.
type TokenIssuer struct {
	secret   []byte
	audience string
	issuer   string
	ttl      time.Duration
	revoker  Revoker
	now      func() time.Time
}

// NewTokenIssuer builds an issuer from the JWT config. revoker may be nil,
// in which case revocation is not checked.
func NewTokenIssuer(cfg config.JWTConfig, revoker Revoker) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		audience: cfg.Audience,
		issuer:   cfg.Issuer,
		ttl:      cfg.AccessTTL,
		revoker:  revoker,
		now:      time.Now,
	}
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// GenerateAccessToken issues a token for userID and returns it with its expiry.
func (t *TokenIssuer) GenerateAccessToken(userID, role string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	if t.audience != "" {
		claims["aud"] = t.audience
	}
	if t.issuer != "" {
		claims["iss"] = t.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateAccessToken checks signature, exp/nbf, audience and issuer, then
// the revocation store. Revocation store errors do not fail authentication.
func (t *TokenIssuer) ValidateAccessToken(ctx context.Context, tokenStr string) (*AccessClaims, error) {
	opts := []jwt.ParserOption{
		// exact HS256 only, no algorithm confusion
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	out := &AccessClaims{}
	out.UserID, _ = claims["id"].(string)
	out.Role, _ = claims["role"].(string)
	out.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if out.UserID == "" {
		return nil, ErrTokenInvalid
	}

	if out.JTI != "" && t.revoker != nil {
		if revoked, err := t.revoker.IsRevoked(ctx, out.JTI); err == nil && revoked {
			return nil, ErrTokenRevoked
		}
	}
	return out, nil
}

// Revoke blacklists the token's jti until the token would have expired.
func (t *TokenIssuer) Revoke(ctx context.Context, claims *AccessClaims) error {
	if t.revoker == nil {
		return errors.New("no revocation store configured")
	}
	if claims == nil || claims.JTI == "" {
		return errors.New("empty jti")
	}
	ttl := claims.ExpiresAt.Sub(t.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return t.revoker.Revoke(ctx, claims.JTI, ttl)
}

// ContextWithUser stores the authenticated user in ctx.
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// Get userID from context
func GetUserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserRole(r *http.Request) string {
	role, _ := r.Context().Value(UserRoleKey).(string)
	return role
}

func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(RequestIDKey).(string)
	return rid
}
