package postgres

import (
	"context"
	"fmt"
	"time"

	"ride-sharing/internal/config"
	"ride-sharing/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DataBase wraps a pgx pool. A pool (not a single conn) is required:
// accept/complete transactions hold row locks while other requests keep
// serving reads.
type DataBase struct {
	pool *pgxpool.Pool
	log  mylogger.Logger
}

// Connect establishes the pool with bounded retry. After MaxRetries
// failed attempts the last error is returned and the caller is expected
// to treat it as fatal.
func Connect(ctx context.Context, cfg *config.DBconfig, log mylogger.Logger) (*DataBase, error) {
	connStr := fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)

	var lastErr error
	for i := 0; i < cfg.MaxRetries; i++ {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err == nil {
			log.Action("db_connect").Info("connected to postgres")
			return &DataBase{pool: pool, log: log}, nil
		}
		lastErr = err
		log.Action("db_connect").Error(fmt.Sprintf("db connection attempt %d/%d failed", i+1, cfg.MaxRetries), err)

		select {
		case <-time.After(time.Second * time.Duration(i+1)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect to database after %d attempts: %w", cfg.MaxRetries, lastErr)
}

func (d *DataBase) Pool() *pgxpool.Pool {
	return d.pool
}

// EnsureSchema applies a service's idempotent DDL on startup.
func (d *DataBase) EnsureSchema(ctx context.Context, ddl string) error {
	if _, err := d.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (d *DataBase) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("db is not initialized")
	}
	return d.pool.Ping(ctx)
}

func (d *DataBase) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}
