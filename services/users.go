package services

import (
	"context"
	"errors"
	"strings"

	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store    repositories.Store
	hashCost int
}

func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store, hashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	Role        string
	Avatar      *string
	SocialLink  *string
	Description *string
}

// Profile is a user together with their outbound social links.
type Profile struct {
	User        *models.User
	SocialLinks []models.SocialLink
}

type ProfileUpdate struct {
	Username    *string
	Password    *string
	Avatar      *string
	SocialLink  *string
	Description *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 {
		return nil, invalid("Username must be at least 3 characters")
	}
	if len(in.Password) < 6 {
		return nil, invalid("Password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleCreator && role != models.RoleUser {
		return nil, invalid("Role must be creator or user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:       normalizeEmail(in.Email),
		Username:    username,
		Password:    string(hash),
		Role:        role,
		Avatar:      in.Avatar,
		SocialLink:  in.SocialLink,
		Description: in.Description,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. Unknown email and wrong password yield
// the same Unauthorized error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, unauthorized("Invalid credentials")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, msgUserNotFound)
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.store.SocialLinks().ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, SocialLinks: links}, nil
}

// UpdateProfile applies only the fields that are set.
func (s *UserService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var columns []string
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if len(name) < 3 {
			return nil, invalid("Username must be at least 3 characters")
		}
		u.Username = name
		columns = append(columns, "username")
	}
	if upd.Password != nil {
		if len(*upd.Password) < 6 {
			return nil, invalid("Password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		u.Password = string(hash)
		columns = append(columns, "password")
	}
	if upd.Avatar != nil {
		u.Avatar = upd.Avatar
		columns = append(columns, "avatar")
	}
	if upd.SocialLink != nil {
		u.SocialLink = upd.SocialLink
		columns = append(columns, "social_link")
	}
	if upd.Description != nil {
		u.Description = upd.Description
		columns = append(columns, "description")
	}
	if err := s.store.Users().Update(ctx, u, columns...); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SetAvatar(ctx context.Context, id, url string) (*models.User, error) {
	return s.UpdateProfile(ctx, id, ProfileUpdate{Avatar: &url})
}
