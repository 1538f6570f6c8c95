package stub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists users and records in Postgres, so a dev gateway
// can survive restarts. Selected by setting PG_DSN.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS gateway_users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash BYTEA NOT NULL,
    metadata      JSONB NOT NULL DEFAULT '{}',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS gateway_records (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       JSONB NOT NULL,
    PRIMARY KEY (collection, id)
);
`

// NewPostgresStore connects, verifies the connection, and ensures the
// schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) CreateUser(ctx context.Context, u User) error {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO gateway_users (id, email, password_hash, metadata, created_at)
		VALUES ($1, lower($2), $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Email, u.PasswordHash, u.Metadata, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmailTaken
	}
	return nil
}

func (p *PostgresStore) UserByEmail(ctx context.Context, email string) (User, error) {
	return p.scanUser(p.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, metadata, created_at
		FROM gateway_users WHERE email = lower($1)`, email))
}

func (p *PostgresStore) UserByID(ctx context.Context, id string) (User, error) {
	return p.scanUser(p.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, metadata, created_at
		FROM gateway_users WHERE id = $1`, id))
}

func (p *PostgresStore) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Metadata, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (p *PostgresStore) UpdateUserPassword(ctx context.Context, id string, hash []byte) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE gateway_users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM gateway_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *PostgresStore) ListRecords(ctx context.Context, collection string) ([]Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM gateway_records WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if out == nil {
		out = []Record{}
	}
	return out, rows.Err()
}

func (p *PostgresStore) GetRecord(ctx context.Context, collection, id string) (Record, error) {
	var rec Record
	err := p.pool.QueryRow(ctx, `
		SELECT data FROM gateway_records WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (p *PostgresStore) CreateRecord(ctx context.Context, collection string, rec Record) error {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO gateway_records (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING`,
		collection, rec.ID(), map[string]any(rec))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordExists
	}
	return nil
}

func (p *PostgresStore) UpdateRecord(ctx context.Context, collection, id string, patch Record) (Record, error) {
	delete(patch, "id")
	var rec Record
	err := p.pool.QueryRow(ctx, `
		UPDATE gateway_records SET data = data || $3
		WHERE collection = $1 AND id = $2
		RETURNING data`,
		collection, id, map[string]any(patch)).Scan(&rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return rec, nil
}

func (p *PostgresStore) DeleteRecord(ctx context.Context, collection, id string) error {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM gateway_records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *PostgresStore) Close() { p.pool.Close() }

// HealthCheck pings the pool, for the daemon /health endpoint.
func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

var _ Store = (*PostgresStore)(nil)
