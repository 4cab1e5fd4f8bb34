package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

// Store groups the per-entity repositories. Transaction runs fn against a
// Store bound to a single database transaction.
type Store interface {
	Users() UserRepository
	Roulettes() RouletteRepository
	AccessCodes() AccessCodeRepository
	Likes() LikeRepository
	Wins() WinRepository
	SocialLinks() SocialLinkRepository
	RevokedTokens() RevokedTokenRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository                 { return &userRepo{db: s.db} }
func (s *GormStore) Roulettes() RouletteRepository         { return &rouletteRepo{db: s.db} }
func (s *GormStore) AccessCodes() AccessCodeRepository     { return &accessCodeRepo{db: s.db} }
func (s *GormStore) Likes() LikeRepository                 { return &likeRepo{db: s.db} }
func (s *GormStore) Wins() WinRepository                   { return &winRepo{db: s.db} }
func (s *GormStore) SocialLinks() SocialLinkRepository     { return &socialLinkRepo{db: s.db} }
func (s *GormStore) RevokedTokens() RevokedTokenRepository { return &revokedTokenRepo{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Ping checks database reachability.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm errors to repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
