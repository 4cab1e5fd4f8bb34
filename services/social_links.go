package services

import (
	"context"
	"strings"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

type SocialLinkService struct {
	store repositories.Store
}

func NewSocialLinkService(store repositories.Store) *SocialLinkService {
	return &SocialLinkService{store: store}
}

type SocialLinkPatch struct {
	Platform *string
	URL      *string
}

// canonicalPlatform matches name case-insensitively against the supported platforms.
func canonicalPlatform(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, p := range models.SocialPlatforms {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}

func (s *SocialLinkService) Create(ctx context.Context, userID, platform, url string) (*models.SocialLink, error) {
	p, ok := canonicalPlatform(platform)
	if !ok {
		return nil, invalid("Unsupported platform")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, invalid("URL is required")
	}
	l := &models.SocialLink{UserID: userID, Platform: p, URL: url}
	if err := s.store.SocialLinks().Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SocialLinkService) ListByUser(ctx context.Context, userID string) ([]models.SocialLink, error) {
	return s.store.SocialLinks().ListByUser(ctx, userID)
}

func (s *SocialLinkService) owned(ctx context.Context, id, callerID string) (*models.SocialLink, error) {
	l, err := s.store.SocialLinks().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, msgSocialLinkNotFound)
	}
	if l.UserID != callerID {
		return nil, unauthorized("You can only manage your own social links")
	}
	return l, nil
}

func (s *SocialLinkService) Update(ctx context.Context, id string, patch SocialLinkPatch, callerID string) (*models.SocialLink, error) {
	l, err := s.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	var columns []string
	if patch.Platform != nil {
		p, ok := canonicalPlatform(*patch.Platform)
		if !ok {
			return nil, invalid("Unsupported platform")
		}
		l.Platform = p
		columns = append(columns, "platform")
	}
	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		if url == "" {
			return nil, invalid("URL is required")
		}
		l.URL = url
		columns = append(columns, "url")
	}
	if err := s.store.SocialLinks().Update(ctx, l, columns...); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SocialLinkService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.store.SocialLinks().Delete(ctx, id); err != nil {
		return orNotFound(err, msgSocialLinkNotFound)
	}
	return nil
}
