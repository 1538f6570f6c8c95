package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rideflow/rideflow/internal/model"
)

func sessionBody() map[string]any {
	return map[string]any{
		"access_token":  "tok-1",
		"refresh_token": "refresh-1",
		"user":          map[string]string{"id": "u-1", "email": "user@test.com"},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL, "test-key", 2*time.Second)
}

func TestSignInAdoptsSessionAndEmits(t *testing.T) {
	var gotPath, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		json.NewEncoder(w).Encode(sessionBody())
	})

	var events []AuthEvent
	sub := c.OnAuthStateChange(func(ev AuthEvent) { events = append(events, ev) })
	defer sub.Unsubscribe()

	s, err := c.SignIn(context.Background(), "user@test.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if gotPath != "/auth/v1/signin" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if s.UserID != "u-1" || s.AccessToken != "tok-1" {
		t.Fatalf("session = %+v", s)
	}
	if c.CurrentSession() == nil {
		t.Fatal("session not retained")
	}
	if len(events) != 1 || events[0].Type != EventSignedIn {
		t.Fatalf("events = %+v", events)
	}
}

func TestErrorKindMapping(t *testing.T) {
	cases := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindUnknown},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			json.NewEncoder(w).Encode(map[string]string{"error": "e", "message": "m"})
		})
		_, err := c.SignIn(context.Background(), "a@b.co", "secret1")
		if got := KindOf(err); got != tc.want {
			t.Errorf("status %d → kind %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestTimeoutSurfacesAsKindTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()
	c := NewHTTPClient(ts.URL, "k", 50*time.Millisecond)

	err := c.GetAll(context.Background(), "rides", &[]model.Ride{})
	if KindOf(err) != KindTimeout {
		t.Fatalf("kind = %q, want timeout", KindOf(err))
	}
}

func TestUnreachableHostIsKindNetwork(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", "k", time.Second)
	err := c.GetAll(context.Background(), "rides", &[]model.Ride{})
	if KindOf(err) != KindNetwork {
		t.Fatalf("kind = %q, want network", KindOf(err))
	}
}

func TestRecordCallsCarryBearerToken(t *testing.T) {
	var auth, method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/signin" {
			json.NewEncoder(w).Encode(sessionBody())
			return
		}
		auth = r.Header.Get("Authorization")
		method = r.Method
		path = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"id": "s-1"})
	})
	if _, err := c.SignIn(context.Background(), "user@test.com", "secret1"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var out map[string]any
	if err := c.Update(context.Background(), "settings", "s-1", map[string]any{"theme": "dark"}, &out); err != nil {
		t.Fatalf("update: %v", err)
	}
	if auth != "Bearer tok-1" {
		t.Errorf("authorization = %q", auth)
	}
	if method != http.MethodPatch || path != "/rest/v1/settings/s-1" {
		t.Errorf("%s %s, want PATCH /rest/v1/settings/s-1", method, path)
	}
}

func TestSignOutWithoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if err := c.SignOut(context.Background()); err != ErrNoSession {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSignOutClearsSessionAndEmits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/signin" {
			json.NewEncoder(w).Encode(sessionBody())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if _, err := c.SignIn(context.Background(), "user@test.com", "secret1"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var events []AuthEventType
	sub := c.OnAuthStateChange(func(ev AuthEvent) { events = append(events, ev.Type) })
	defer sub.Unsubscribe()

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if c.CurrentSession() != nil {
		t.Fatal("session survived sign-out")
	}
	if len(events) != 1 || events[0] != EventSignedOut {
		t.Fatalf("events = %v", events)
	}
}

func TestGetAllDecodesInto(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Ride{{ID: "1", DriverName: "Alice Johnson"}})
	})
	var rides []model.Ride
	if err := c.GetAll(context.Background(), "rides", &rides); err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(rides) != 1 || rides[0].DriverName != "Alice Johnson" {
		t.Fatalf("rides = %+v", rides)
	}
}
