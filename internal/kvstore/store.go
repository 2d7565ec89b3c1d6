// Package kvstore holds the string key-value backends the app persists its
// scores in.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend-safedrive/internal/config"
	"backend-safedrive/internal/db"

	"github.com/redis/go-redis/v9"
)

// Store is an opaque string key-value store.
type Store interface {
	// GetString returns ok=false when the key has never been set.
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetString(ctx context.Context, key, value string) error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Open builds the store selected by cfg.StoreDriver. pg and rdb may be nil
// when the corresponding backend is not configured.
func Open(cfg config.Config, pg db.Querier, rdb *redis.Client) (Store, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case DriverPostgres:
		if pg == nil {
			return nil, fmt.Errorf("store driver %q: %w", cfg.StoreDriver, db.ErrPostgresDisabled)
		}
		return NewPostgres(context.Background(), pg)
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("store driver %q: redis not configured", cfg.StoreDriver)
		}
		return NewRedis(rdb), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.StoreDriver)
	}
}
