package stub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
)

const testAPIKey = "test-key"

// startGateway runs a seeded stub over httptest and returns a real client
// wired to it, so these tests cover both sides of the wire.
func startGateway(t *testing.T) (*httptest.Server, *gateway.HTTPClient) {
	t.Helper()
	tokens := NewJWTManager("test-secret", time.Hour)
	srv := NewServer(NewMemoryStore(), tokens, NewMemoryRevoker(), testAPIKey, time.Hour)
	if err := srv.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, gateway.NewHTTPClient(ts.URL, testAPIKey, 2*time.Second)
}

func TestSignInDemoRider(t *testing.T) {
	_, c := startGateway(t)
	s, err := c.SignIn(context.Background(), DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.Email != DemoEmail || s.UserID == "" || s.AccessToken == "" {
		t.Fatalf("session = %+v", s)
	}
	if s.ExpiresAt.IsZero() {
		t.Error("expiry not derived from token claims")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	_, c := startGateway(t)
	_, err := c.SignIn(context.Background(), DemoEmail, "wrongpass")
	if gateway.KindOf(err) != gateway.KindAuth {
		t.Fatalf("kind = %q, want auth", gateway.KindOf(err))
	}
}

func TestWrongAPIKeyRejected(t *testing.T) {
	ts, _ := startGateway(t)
	c := gateway.NewHTTPClient(ts.URL, "not-the-key", 2*time.Second)
	_, err := c.SignIn(context.Background(), DemoEmail, DemoPassword)
	if gateway.KindOf(err) != gateway.KindAuth {
		t.Fatalf("kind = %q, want auth", gateway.KindOf(err))
	}
}

func TestSignUpSeedsProfileAndSettings(t *testing.T) {
	_, c := startGateway(t)
	s, err := c.SignUp(context.Background(), "new@rider.io", "secret1", map[string]any{"full_name": "New Rider"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	p, err := c.GetProfile(context.Background(), s.UserID)
	if err != nil {
		t.Fatalf("profile after signup: %v", err)
	}
	if p.FullName != "New Rider" {
		t.Errorf("profile name = %q", p.FullName)
	}

	var settings model.Settings
	if err := c.GetByID(context.Background(), "settings", s.UserID, &settings); err != nil {
		t.Fatalf("settings after signup: %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	_, c := startGateway(t)
	_, err := c.SignUp(context.Background(), DemoEmail, "secret1", nil)
	if gateway.KindOf(err) != gateway.KindConflict {
		t.Fatalf("kind = %q, want conflict", gateway.KindOf(err))
	}
}

func TestSeededRidesAreListed(t *testing.T) {
	_, c := startGateway(t)
	if _, err := c.SignIn(context.Background(), DemoEmail, DemoPassword); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	var rides []model.Ride
	if err := c.GetAll(context.Background(), "rides", &rides); err != nil {
		t.Fatalf("get rides: %v", err)
	}
	if len(rides) != len(model.SampleRides()) {
		t.Fatalf("rides = %d, want %d", len(rides), len(model.SampleRides()))
	}
}

func TestRecordCRUDRoundTrip(t *testing.T) {
	_, c := startGateway(t)
	if _, err := c.SignIn(context.Background(), DemoEmail, DemoPassword); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	ctx := context.Background()

	var created map[string]any
	if err := c.Create(ctx, "notes", map[string]any{"text": "pickup at gate 2"}, &created); err != nil {
		t.Fatalf("create: %v", err)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("server did not assign an id")
	}

	var patched map[string]any
	if err := c.Update(ctx, "notes", id, map[string]any{"text": "gate 3"}, &patched); err != nil {
		t.Fatalf("update: %v", err)
	}
	if patched["text"] != "gate 3" {
		t.Errorf("patched = %v", patched)
	}

	if err := c.Delete(ctx, "notes", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var out map[string]any
	err := c.GetByID(ctx, "notes", id, &out)
	if gateway.KindOf(err) != gateway.KindNotFound {
		t.Fatalf("kind after delete = %q, want not_found", gateway.KindOf(err))
	}
}

func TestRecordsRequireSession(t *testing.T) {
	_, c := startGateway(t)
	var rides []model.Ride
	err := c.GetAll(context.Background(), "rides", &rides)
	if gateway.KindOf(err) != gateway.KindAuth {
		t.Fatalf("kind = %q, want auth", gateway.KindOf(err))
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	ts, c := startGateway(t)
	s, err := c.SignIn(context.Background(), DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	token := s.AccessToken
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	// Replay the revoked token directly; the client itself already
	// dropped its session.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/rest/v1/rides", nil)
	req.Header.Set("X-Api-Key", testAPIKey)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("replay request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for a revoked token", resp.StatusCode)
	}
}

func TestPasswordChange(t *testing.T) {
	_, c := startGateway(t)
	s, err := c.SignIn(context.Background(), DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	ctx := context.Background()

	// Wrong current password.
	err = c.Update(ctx, "credentials", s.UserID, map[string]any{
		"current_password": "notright",
		"new_password":     "freshpass9",
	}, nil)
	if gateway.KindOf(err) != gateway.KindAuth {
		t.Fatalf("kind = %q, want auth", gateway.KindOf(err))
	}

	// Correct change, then the new password signs in.
	err = c.Update(ctx, "credentials", s.UserID, map[string]any{
		"current_password": DemoPassword,
		"new_password":     "freshpass9",
	}, nil)
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := c.SignIn(ctx, DemoEmail, "freshpass9"); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
	if _, err := c.SignIn(ctx, DemoEmail, DemoPassword); gateway.KindOf(err) != gateway.KindAuth {
		t.Fatal("old password still accepted")
	}
}

func TestRealtimePushesOutOfBandSignOut(t *testing.T) {
	ts, deviceA := startGateway(t)
	ctx := context.Background()
	if _, err := deviceA.SignIn(ctx, DemoEmail, DemoPassword); err != nil {
		t.Fatalf("device A sign in: %v", err)
	}
	if err := deviceA.StartRealtime(ctx); err != nil {
		t.Fatalf("start realtime: %v", err)
	}
	defer deviceA.StopRealtime()

	signedOut := make(chan struct{})
	sub := deviceA.OnAuthStateChange(func(ev gateway.AuthEvent) {
		if ev.Type == gateway.EventSignedOut {
			close(signedOut)
		}
	})
	defer sub.Unsubscribe()

	// The same rider signs out from another device.
	deviceB := gateway.NewHTTPClient(ts.URL, testAPIKey, 2*time.Second)
	if _, err := deviceB.SignIn(ctx, DemoEmail, DemoPassword); err != nil {
		t.Fatalf("device B sign in: %v", err)
	}
	if err := deviceB.SignOut(ctx); err != nil {
		t.Fatalf("device B sign out: %v", err)
	}

	select {
	case <-signedOut:
	case <-time.After(3 * time.Second):
		t.Fatal("device A never received the pushed sign-out")
	}
	if deviceA.CurrentSession() != nil {
		t.Fatal("device A session survived the pushed sign-out")
	}
}

func TestDeleteProfileDeletesAccount(t *testing.T) {
	_, c := startGateway(t)
	ctx := context.Background()
	s, err := c.SignUp(ctx, "gone@rider.io", "secret1", nil)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := c.Delete(ctx, "profiles", s.UserID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if _, err := c.SignIn(ctx, "gone@rider.io", "secret1"); gateway.KindOf(err) != gateway.KindAuth {
		t.Fatal("deleted account can still sign in")
	}
}
