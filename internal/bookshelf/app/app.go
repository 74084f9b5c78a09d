package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/api/server"
	br "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo/postgres"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/seedlock/redis"
	ur "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo/postgres"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/authservice"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/bookservice"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/seedservice"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/userservice"
	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/pgtools"
	"github.com/Leopold1975/bookshelf/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type BookshelfApp struct {
	s    Server
	db   *pgxpool.Pool
	lock *redis.SeedLock
	lg   logger.Logger
	cfg  config.Config
}

func New(ctx context.Context, cfg config.Config) (BookshelfApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return BookshelfApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := connectDB(ctx, cfg.PostgresDB)
	if err != nil {
		return BookshelfApp{}, err
	}

	userRepo := ur.New(db)
	bookRepo := br.New(db)

	lock, err := newLock(ctx, cfg.Redis)
	if err != nil {
		db.Close()

		return BookshelfApp{}, err
	}

	if !cfg.Seed.Skip {
		if _, err := seed(ctx, userRepo, lock, cfg, lg); err != nil {
			closeLock(lock, lg)
			db.Close()

			return BookshelfApp{}, err
		}
	}

	authService := authservice.New(userRepo, cfg.Auth)
	userService := userservice.New(userRepo)
	bookService := bookservice.New(bookRepo, lg)

	s := server.New(cfg.Server, authService, userService, bookService, lg)

	return BookshelfApp{
		s:    s,
		db:   db,
		lock: lock,
		lg:   lg,
		cfg:  cfg,
	}, nil
}

func (ba *BookshelfApp) Run(ctx context.Context) {
	ba.lg.Infof("STARTED SERVER ON %s", ba.cfg.Server.Addr)

	go func() {
		if err := ba.s.Start(ctx); err != nil {
			ba.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ba.Stop(ctxS); err != nil { //nolint:contextcheck
		ba.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ba *BookshelfApp) Stop(ctx context.Context) error {
	defer ba.lg.Sync() //nolint:errcheck

	if err := ba.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ba.db.Close()
	closeLock(ba.lock, ba.lg)

	ba.lg.Info("Shutdowned successfully")

	return nil
}

// Seed runs admin seeding once, regardless of cfg.Seed.Skip.
func Seed(ctx context.Context, cfg config.Config) (bool, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return false, fmt.Errorf("can't get logger error: %w", err)
	}
	defer lg.Sync() //nolint:errcheck

	db, err := connectDB(ctx, cfg.PostgresDB)
	if err != nil {
		return false, err
	}
	defer db.Close()

	lock, err := newLock(ctx, cfg.Redis)
	if err != nil {
		return false, err
	}
	defer closeLock(lock, lg)

	return seed(ctx, ur.New(db), lock, cfg, lg)
}

func connectDB(ctx context.Context, cfg config.PostgresDB) (*pgxpool.Pool, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres connect error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		db.Close()

		return nil, fmt.Errorf("apply migration error: %w", err)
	}

	return db, nil
}

// newLock returns nil when no Redis address is configured.
func newLock(ctx context.Context, cfg config.Redis) (*redis.SeedLock, error) {
	if cfg.Addr == "" {
		return nil, nil //nolint:nilnil
	}

	lock, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("redis seed lock initializing error: %w", err)
	}

	return lock, nil
}

func seed(ctx context.Context, repo seedservice.Repository, lock *redis.SeedLock,
	cfg config.Config, lg logger.Logger,
) (bool, error) {
	var locker seedservice.Locker
	if lock != nil {
		locker = lock
	}

	created, err := seedservice.New(repo, locker, cfg.Seed, cfg.Auth.BcryptCost, lg).SeedAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("seed admin error: %w", err)
	}

	return created, nil
}

func closeLock(lock *redis.SeedLock, lg logger.Logger) {
	if lock == nil {
		return
	}

	if err := lock.Close(); err != nil {
		lg.Errorf("redis close error: %s", err.Error())
	}
}
