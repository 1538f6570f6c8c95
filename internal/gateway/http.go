package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/observability"
)

// HTTPClient talks to the hosted service over its REST surface:
//
//	POST /auth/v1/signup           → session
//	POST /auth/v1/signin           → session
//	POST /auth/v1/signout
//	POST /auth/v1/recover
//	GET  /rest/v1/{collection}             → all records
//	POST /rest/v1/{collection}             → created record
//	GET  /rest/v1/{collection}/{id}        → one record
//	PATCH /rest/v1/{collection}/{id}       → updated record
//	DELETE /rest/v1/{collection}/{id}
//
// Every call carries the API key; record calls also carry the session
// bearer token. Calls are bounded by the configured timeout so a dead
// service surfaces as KindTimeout instead of a perpetual spinner.
type HTTPClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client

	mu      sync.RWMutex
	session *model.Session

	listenerMu sync.Mutex
	listeners  map[int]func(AuthEvent)
	nextID     int

	realtime *realtimeFeed
}

// Option tweaks the client at construction time.
type Option func(*HTTPClient)

// WithHTTPDoer swaps the underlying http.Client (tests).
func WithHTTPDoer(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// NewHTTPClient builds a gateway client against the given base URL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &HTTPClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		timeout:   timeout,
		http:      &http.Client{},
		listeners: make(map[int]func(AuthEvent)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─── Auth operations ────────────────────────────────────────

type sessionEnvelope struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.Session, error) {
	body := map[string]any{"email": email, "password": password, "metadata": metadata}
	var env sessionEnvelope
	if err := c.call(ctx, "signUp", http.MethodPost, "/auth/v1/signup", body, &env); err != nil {
		return nil, err
	}
	return c.adoptSession(env, EventSignedIn), nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	body := map[string]any{"email": email, "password": password}
	var env sessionEnvelope
	if err := c.call(ctx, "signIn", http.MethodPost, "/auth/v1/signin", body, &env); err != nil {
		return nil, err
	}
	return c.adoptSession(env, EventSignedIn), nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	if c.CurrentSession() == nil {
		return ErrNoSession
	}
	if err := c.call(ctx, "signOut", http.MethodPost, "/auth/v1/signout", nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.emit(AuthEvent{Type: EventSignedOut})
	return nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email string) error {
	return c.call(ctx, "resetPassword", http.MethodPost, "/auth/v1/recover", map[string]any{"email": email}, nil)
}

// CurrentSession returns the active session, or nil when signed out.
func (c *HTTPClient) CurrentSession() *model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// adoptSession stores the session, deriving user id and expiry from the
// token claims when present, and notifies listeners.
func (c *HTTPClient) adoptSession(env sessionEnvelope, event AuthEventType) *model.Session {
	s := &model.Session{
		UserID:       env.User.ID,
		Email:        env.User.Email,
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
	}
	// The token is verified server-side; here we only read claims.
	if claims := parseClaims(env.AccessToken); claims != nil {
		if s.UserID == "" {
			s.UserID = claims.Subject
		}
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.emit(AuthEvent{Type: event, Session: s})
	return s
}

func parseClaims(token string) *jwt.RegisteredClaims {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// ─── Auth state listeners ───────────────────────────────────

type subscription struct {
	client *HTTPClient
	id     int
}

func (s *subscription) Unsubscribe() {
	s.client.listenerMu.Lock()
	delete(s.client.listeners, s.id)
	s.client.listenerMu.Unlock()
}

// OnAuthStateChange registers fn for local and pushed session changes.
func (c *HTTPClient) OnAuthStateChange(fn func(AuthEvent)) Subscription {
	c.listenerMu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.listenerMu.Unlock()
	return &subscription{client: c, id: id}
}

func (c *HTTPClient) emit(ev AuthEvent) {
	observability.AuthEventsTotal.WithLabelValues(string(ev.Type)).Inc()
	c.listenerMu.Lock()
	fns := make([]func(AuthEvent), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// ─── Record operations ──────────────────────────────────────

func (c *HTTPClient) GetAll(ctx context.Context, collection string, out any) error {
	return c.call(ctx, "records.getAll", http.MethodGet, "/rest/v1/"+collection, nil, out)
}

func (c *HTTPClient) GetByID(ctx context.Context, collection, id string, out any) error {
	return c.call(ctx, "records.getById", http.MethodGet, "/rest/v1/"+collection+"/"+id, nil, out)
}

func (c *HTTPClient) Create(ctx context.Context, collection string, record, out any) error {
	return c.call(ctx, "records.create", http.MethodPost, "/rest/v1/"+collection, record, out)
}

func (c *HTTPClient) Update(ctx context.Context, collection, id string, updates, out any) error {
	return c.call(ctx, "records.update", http.MethodPatch, "/rest/v1/"+collection+"/"+id, updates, out)
}

func (c *HTTPClient) Delete(ctx context.Context, collection, id string) error {
	return c.call(ctx, "records.delete", http.MethodDelete, "/rest/v1/"+collection+"/"+id, nil, nil)
}

// ─── Profile operations ─────────────────────────────────────

func (c *HTTPClient) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := c.GetByID(ctx, "profiles", userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*model.Profile, error) {
	var p model.Profile
	if err := c.Update(ctx, "profiles", userID, updates, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	var p model.Profile
	if err := c.Create(ctx, "profiles", profile, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ─── Transport ──────────────────────────────────────────────

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call performs one bounded remote request and decodes the response.
func (c *HTTPClient) call(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.do(ctx, op, method, path, body, out)
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	observability.GatewayRequestsTotal.WithLabelValues(op, outcome).Inc()
	observability.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return err
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: op, Message: "encode request", err: err}
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Message: "build request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	if s := c.CurrentSession(); s != nil {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return &Error{Kind: KindTimeout, Op: op, Message: "request timed out", err: err}
		}
		return &Error{Kind: KindNetwork, Op: op, Message: "request failed", err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &Error{Kind: kindForStatus(resp.StatusCode), Op: op, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Op: op, Message: "decode response", err: err}
	}
	return nil
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindUnknown
	default:
		return KindUnknown
	}
}

var _ Client = (*HTTPClient)(nil)
