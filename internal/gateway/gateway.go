// Package gateway is the narrow client for the hosted auth + record-storage
// service. Every operation maps to exactly one remote call: no retries, no
// batching, no caching. Failures come back as a typed *Error so callers
// always branch explicitly on success/failure.
package gateway

import (
	"context"

	"github.com/rideflow/rideflow/internal/model"
)

// AuthEventType identifies an out-of-band session change.
type AuthEventType string

const (
	EventSignedIn     AuthEventType = "SIGNED_IN"
	EventSignedOut    AuthEventType = "SIGNED_OUT"
	EventTokenRefresh AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is delivered to OnAuthStateChange listeners whenever session
// state changes, locally or pushed by the service.
type AuthEvent struct {
	Type    AuthEventType
	Session *model.Session // nil on sign-out
}

// Subscription is a registered auth listener. Release it when the owning
// component is torn down.
type Subscription interface {
	Unsubscribe()
}

// Client is the full gateway surface consumed by the app.
type Client interface {
	// ── Auth ────────────────────────────────────────────
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession() *model.Session
	OnAuthStateChange(fn func(AuthEvent)) Subscription
	ResetPassword(ctx context.Context, email string) error

	// ── Generic record CRUD over a named collection ─────
	GetAll(ctx context.Context, collection string, out any) error
	GetByID(ctx context.Context, collection, id string, out any) error
	Create(ctx context.Context, collection string, record, out any) error
	Update(ctx context.Context, collection, id string, updates, out any) error
	Delete(ctx context.Context, collection, id string) error

	// ── Profiles (the CRUD pattern specialized to one collection) ──
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}
