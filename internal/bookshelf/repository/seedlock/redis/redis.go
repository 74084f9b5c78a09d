package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/redistools"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bookshelf:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type SeedLock struct {
	rdb   *redis.Client
	ttl   time.Duration
	token string
}

func New(ctx context.Context, cfg config.Redis) (*SeedLock, error) {
	rdb := redistools.NewClient(cfg)

	if err := redistools.Connect(ctx, rdb); err != nil {
		return nil, fmt.Errorf("connect error: %w", err)
	}

	return NewWithClient(rdb, cfg.LockTTL)
}

func NewWithClient(rdb *redis.Client, ttl time.Duration) (*SeedLock, error) {
	b := make([]byte, 16) //nolint:gomnd
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("token error: %w", err)
	}

	return &SeedLock{
		rdb:   rdb,
		ttl:   ttl,
		token: hex.EncodeToString(b),
	}, nil
}

// Acquire reports whether this instance now holds the lock for name.
func (sl *SeedLock) Acquire(ctx context.Context, name string) (bool, error) {
	ok, err := sl.rdb.SetNX(ctx, keyPrefix+name, sl.token, sl.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx error: %w", err)
	}

	return ok, nil
}

func (sl *SeedLock) Release(ctx context.Context, name string) error {
	if err := releaseScript.Run(ctx, sl.rdb, []string{keyPrefix + name}, sl.token).Err(); err != nil {
		return fmt.Errorf("release error: %w", err)
	}

	return nil
}

func (sl *SeedLock) Close() error {
	if err := sl.rdb.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}

	return nil
}
