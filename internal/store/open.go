package store

import (
	"context"
	"fmt"
)

// Options selects and configures a Backend.
type Options struct {
	Kind           string // memory, sqlite, postgres or redis
	DatabaseURL    string
	SQLitePath     string
	RedisAddr      string
	RedisKeyPrefix string
}

// Open returns the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		db, err := NewSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := NewDB(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "redis":
		r := NewRedis(opts.RedisAddr, opts.RedisKeyPrefix)
		if !r.Healthy(ctx) {
			r.Close()
			return nil, fmt.Errorf("redis %s not reachable", opts.RedisAddr)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
	}
}

// Healthy reports backend reachability. Backends without a probe are
// always healthy.
func Healthy(ctx context.Context, b Backend) bool {
	if p, ok := b.(interface{ Healthy(context.Context) bool }); ok {
		return p.Healthy(ctx)
	}
	return true
}
