// Package session owns the signed-in/signed-out state of the app.
//
// The controller is the single writer of that state; the navigation graph
// and screens only read it or subscribe to changes. It mirrors the gateway
// auth feed, so an out-of-band sign-out (token revoked on another device)
// flips the state the same way a local sign-out does.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
)

// Controller holds the single active session. At most one session exists
// at a time; a new sign-in replaces the previous one.
type Controller struct {
	gw gateway.Client

	mu      sync.RWMutex
	session *model.Session

	obsMu     sync.Mutex
	observers map[int]func(signedIn bool)
	nextID    int

	sub gateway.Subscription
}

// NewController builds the controller and registers it on the gateway auth
// feed. Call Close at process exit to release the subscription.
func NewController(gw gateway.Client) *Controller {
	c := &Controller{
		gw:        gw,
		observers: make(map[int]func(bool)),
	}
	c.sub = gw.OnAuthStateChange(c.onAuthEvent)
	return c
}

// Close releases the gateway auth subscription. The controller lives for
// the app lifetime, so in practice this runs once at process exit.
func (c *Controller) Close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
}

// SignedIn reports whether a session is active.
func (c *Controller) SignedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Session returns the active session, nil when signed out.
func (c *Controller) Session() *model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SignIn delegates to the gateway. On failure the signed-in state is left
// untouched and the error is returned for the caller to surface.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	_, err := c.gw.SignIn(ctx, email, password)
	return err // state flips via the auth event, not here
}

// SignOut delegates to the gateway and always clears local state, even if
// the remote call failed: a rider who asked to sign out must end up signed
// out locally.
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.gw.SignOut(ctx)
	if err != nil {
		log.Printf("[session] remote sign-out failed, clearing local state anyway: %v", err)
		c.markSignedOut()
	}
	return err
}

// Subscribe registers fn to run on every signed-in/out flip. The returned
// function releases the registration; every subscriber must call it on
// teardown.
func (c *Controller) Subscribe(fn func(signedIn bool)) (unsubscribe func()) {
	c.obsMu.Lock()
	c.nextID++
	id := c.nextID
	c.observers[id] = fn
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// ─── Internal state transitions ─────────────────────────────

func (c *Controller) onAuthEvent(ev gateway.AuthEvent) {
	switch ev.Type {
	case gateway.EventSignedIn:
		c.markSignedIn(ev.Session)
	case gateway.EventSignedOut:
		c.markSignedOut()
	case gateway.EventTokenRefresh:
		c.mu.Lock()
		if c.session != nil && ev.Session != nil {
			c.session = ev.Session
		}
		c.mu.Unlock()
	}
}

func (c *Controller) markSignedIn(s *model.Session) {
	c.mu.Lock()
	was := c.session != nil
	c.session = s
	c.mu.Unlock()
	if !was {
		log.Printf("[session] signed in as %s", s.Email)
		c.broadcast(true)
	}
}

func (c *Controller) markSignedOut() {
	c.mu.Lock()
	was := c.session != nil
	c.session = nil
	c.mu.Unlock()
	if was {
		log.Printf("[session] signed out")
		c.broadcast(false)
	}
}

func (c *Controller) broadcast(signedIn bool) {
	c.obsMu.Lock()
	fns := make([]func(bool), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(signedIn)
	}
}
