package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout bounds how long a request can stall waiting for the
// database to become reachable. Operations fail fast instead of hanging.
const connectTimeout = 5 * time.Second

// NewPool creates the process-wide PostgreSQL connection pool. The pool
// is the explicitly owned connection handle: main creates it once,
// services share it, and /api/health pings it for an explicit health
// check. The initial Ping verifies the connection string at startup.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
