package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"myshop/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	repo   Repository
	tokens *auth.TokenMaker
}

func NewService(repo Repository, tokens *auth.TokenMaker) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	return *u, nil
}

// Login verifies credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		return User{}, "", fmt.Errorf("sign token: %w", err)
	}

	return u, token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, email string) (User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(email))
	}

	if err := s.repo.Update(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
