package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo"
	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("username already taken")
	ErrMissingFields      = errors.New("username and password are required")
)

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register stores a new regular user. The role is always models.RoleUser.
func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	if req.Username == "" || req.Password == "" {
		return models.User{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), as.cfg.BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Role:         models.RoleUser,
	}

	u, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, ErrAlreadyExists
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	return u, nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) Authenticate(token string) (jwtauth.Claims, error) {
	claims, err := jwtauth.ParseToken(token, as.cfg.Secret)
	if err != nil {
		return jwtauth.Claims{}, fmt.Errorf("parse token error: %w", err)
	}

	return claims, nil
}
