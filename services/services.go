package services

import (
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

// Services bundles every domain service over one store.
type Services struct {
	Users       *UserService
	Roulettes   *RouletteService
	AccessCodes *AccessCodeService
	Likes       *LikeService
	Wins        *WinService
	SocialLinks *SocialLinkService
	Spins       *SpinService
}

func New(store repositories.Store, codeLength int) *Services {
	return &Services{
		Users:       NewUserService(store),
		Roulettes:   NewRouletteService(store),
		AccessCodes: NewAccessCodeService(store, codeLength),
		Likes:       NewLikeService(store),
		Wins:        NewWinService(store),
		SocialLinks: NewSocialLinkService(store),
		Spins:       NewSpinService(store),
	}
}

// SetClock replaces the time source of every time-dependent service.
func (s *Services) SetClock(now func() time.Time) {
	s.AccessCodes.now = now
	s.Spins.now = now
}
