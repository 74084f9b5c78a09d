package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

func NewClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func Connect(ctx context.Context, rdb *redis.Client) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		defaultDelay := time.Second

		for {
			if err := rdb.Ping(ctx).Err(); err != nil {
				if ctx.Err() != nil {
					errCh <- fmt.Errorf("context error: %w", ctx.Err())

					return
				}

				time.Sleep(defaultDelay)
				defaultDelay += time.Second

				if defaultDelay > time.Second*10 {
					errCh <- fmt.Errorf("cannot ping redis db error: %w", err)

					return
				}

				continue
			}

			break
		}
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		return err
	}
}
