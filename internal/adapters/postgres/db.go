package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// DB implements the catalog and price repositories on a pgx pool.
type DB struct {
	Pool *pgxpool.Pool
}

// Open builds the pool without dialing. Connections are made on first use,
// so an unreachable store only degrades the requests that touch it.
func Open(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, eris.Wrap(err, "parse database url")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "open pool")
	}
	return &DB{Pool: pool}, nil
}

// Connect is Open followed by a ping; the pool is closed if the ping fails.
func Connect(ctx context.Context, url string) (*DB, error) {
	db, err := Open(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return eris.Wrap(db.Pool.Ping(ctx), "ping database")
}

func (db *DB) Close() { db.Pool.Close() }
