package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rideflow/rideflow/internal/model"
)

// Demo rider credentials, usable out of the box against a fresh gateway.
const (
	DemoEmail    = "user@test.com"
	DemoPassword = "secret1"
)

// Seed loads a fresh store with a demo rider and the bookable rides.
// Seeding an already-seeded store is a no-op.
func (s *Server) Seed(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	demo := User{
		ID:           uuid.NewString(),
		Email:        DemoEmail,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, demo); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("seed demo user: %w", err)
	}
	s.seedAccount(ctx, demo)

	for _, ride := range model.SampleRides() {
		rec, err := toRecord(ride)
		if err != nil {
			return fmt.Errorf("seed ride %s: %w", ride.ID, err)
		}
		if err := s.store.CreateRecord(ctx, "rides", rec); err != nil && !errors.Is(err, ErrRecordExists) {
			return fmt.Errorf("seed ride %s: %w", ride.ID, err)
		}
	}
	log.Printf("[stub] seeded demo rider %s and %d rides", DemoEmail, len(model.SampleRides()))
	return nil
}

// seedAccount creates the per-user profile and settings records a fresh
// account starts with.
func (s *Server) seedAccount(ctx context.Context, u User) {
	name, _ := u.Metadata["full_name"].(string)
	if name == "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	profile, err := toRecord(model.Profile{
		ID:        u.ID,
		FullName:  name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.CreatedAt,
	})
	if err == nil {
		err = s.store.CreateRecord(ctx, "profiles", profile)
	}
	if err != nil && !errors.Is(err, ErrRecordExists) {
		log.Printf("[stub] seed profile for %s: %v", u.Email, err)
	}

	settings, err := toRecord(model.DefaultSettings())
	if err == nil {
		settings["id"] = u.ID
		err = s.store.CreateRecord(ctx, "settings", settings)
	}
	if err != nil && !errors.Is(err, ErrRecordExists) {
		log.Printf("[stub] seed settings for %s: %v", u.Email, err)
	}
}

// toRecord flattens a typed value into the schemaless record shape.
func toRecord(v any) (Record, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
