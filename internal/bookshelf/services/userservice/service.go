package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("role must be 0 (user) or 1 (admin)")
)

type UserService struct {
	userRepo Repository
}

type Repository interface {
	GetUserByID(context.Context, int) (models.User, error)
	UpdateRole(context.Context, int, models.Role) (models.User, error)
}

func New(userRepo Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) GetUser(ctx context.Context, id int) (models.User, error) {
	if !models.ValidID(id) {
		return models.User{}, ErrNotFound
	}

	u, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

func (us *UserService) UpdateRole(ctx context.Context, id int, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	if !models.ValidID(id) {
		return models.User{}, ErrNotFound
	}

	u, err := us.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("update role error: %w", err)
	}

	return u, nil
}
