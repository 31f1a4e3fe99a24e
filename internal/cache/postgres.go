package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
)

// PostgresStore keeps the record as one row of a key/value table
type PostgresStore struct {
	pool  *pgxpool.Pool
	key   string
	clock Clock
}

// NewPostgresStore connects to databaseURL and creates the table if missing
func NewPostgresStore(ctx context.Context, databaseURL, key string, clock Clock) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	if clock == nil {
		clock = time.Now
	}

	s := &PostgresStore{pool: pool, key: key, clock: clock}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) *Record {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value string
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		logger.Log.WithField("key", s.key).Warnf("Failed to read cache from database: %v", err)
		return nil
	}
	return decodeOrNil([]byte(value), "postgres", s.key)
}

func (s *PostgresStore) Save(ctx context.Context, p *magazine.Payload) error {
	data, err := Encode(NewRecord(p, s.clock()))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to write cache to database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// clear removes the slot; used by tests to start from an empty table
func (s *PostgresStore) clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, s.key)
	return err
}
