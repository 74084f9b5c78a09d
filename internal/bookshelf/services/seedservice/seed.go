package seedservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo"
	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const lockName = "seed-admin"

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
}

// Locker serializes seeding across instances.
type Locker interface {
	Acquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}

type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NopLocker) Release(context.Context, string) error        { return nil }

type Seeder struct {
	userRepo Repository
	locker   Locker
	cfg      config.Seed
	cost     int
	lg       logger.Logger
}

func New(userRepo Repository, locker Locker, cfg config.Seed, bcryptCost int, lg logger.Logger) *Seeder {
	if locker == nil {
		locker = NopLocker{}
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Seeder{
		userRepo: userRepo,
		locker:   locker,
		cfg:      cfg,
		cost:     bcryptCost,
		lg:       lg,
	}
}

// SeedAdmin makes sure the configured admin account exists. It reports
// whether this call created it.
func (s *Seeder) SeedAdmin(ctx context.Context) (created bool, err error) { //nolint:nonamedreturns
	acquired, err := s.locker.Acquire(ctx, lockName)
	if err != nil {
		return false, fmt.Errorf("acquire lock error: %w", err)
	}

	if !acquired {
		s.lg.Info("admin seeding is running on another instance, skipping")

		return false, nil
	}

	defer func() {
		if errR := s.locker.Release(ctx, lockName); errR != nil {
			s.lg.Errorf("release seed lock error: %s", errR.Error())
		}
	}()

	_, err = s.userRepo.GetUserByUsername(ctx, s.cfg.Username)
	if err == nil {
		s.lg.Debugf("admin %q already exists", s.cfg.Username)

		return false, nil
	}

	if !errors.Is(err, userrepo.ErrNotFound) {
		return false, fmt.Errorf("get user error: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Password), s.cost)
	if err != nil {
		return false, fmt.Errorf("generate from password error: %w", err)
	}

	_, err = s.userRepo.CreateUser(ctx, models.User{ //nolint:exhaustruct
		Username:     s.cfg.Username,
		PasswordHash: string(hash),
		Email:        s.cfg.Email,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return false, nil
		}

		return false, fmt.Errorf("create user error: %w", err)
	}

	s.lg.Infof("admin %q created", s.cfg.Username)

	return true, nil
}
