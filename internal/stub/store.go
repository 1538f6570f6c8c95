// Package stub is a self-contained development gateway: the same auth,
// record-storage, and realtime surface the app talks to in production,
// backed by memory or Postgres and seeded with demo data. It runs as the
// gatewayd daemon and in-process inside client tests.
package stub

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordExists   = errors.New("record already exists")
)

// User is one registered account. The password is stored only as a
// bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Metadata     map[string]any
	CreatedAt    time.Time
}

// Record is one schemaless document in a named collection. Every record
// carries its id under the "id" key.
type Record map[string]any

// ID returns the record's id, or "" when unset.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Store persists users and collection records. Implementations must be
// safe for concurrent use.
type Store interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	UpdateUserPassword(ctx context.Context, id string, hash []byte) error
	DeleteUser(ctx context.Context, id string) error

	ListRecords(ctx context.Context, collection string) ([]Record, error)
	GetRecord(ctx context.Context, collection, id string) (Record, error)
	CreateRecord(ctx context.Context, collection string, rec Record) error
	UpdateRecord(ctx context.Context, collection, id string, patch Record) (Record, error)
	DeleteRecord(ctx context.Context, collection, id string) error

	Close()
}
