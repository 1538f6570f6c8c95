package gateway

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/rideflow/rideflow/internal/model"
)

// realtimeFeed is the websocket connection carrying out-of-band auth
// events (token refresh, external sign-out) pushed by the service.
type realtimeFeed struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// wireAuthEvent is the message shape on the realtime channel.
type wireAuthEvent struct {
	Event   string          `json:"event"`
	Session sessionEnvelope `json:"session"`
}

// StartRealtime dials the auth event stream and forwards pushed events to
// OnAuthStateChange listeners. The feed lives until StopRealtime or a read
// failure; there is no automatic reconnect.
func (c *HTTPClient) StartRealtime(ctx context.Context) error {
	url := wsURL(c.baseURL) + "/realtime/v1/auth?apikey=" + c.apiKey
	header := http.Header{}
	if s := c.CurrentSession(); s != nil {
		header.Set("Authorization", "Bearer "+s.AccessToken)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return &Error{Kind: KindNetwork, Op: "realtime.dial", Message: "dial auth stream", err: err}
	}

	feedCtx, cancel := context.WithCancel(context.Background())
	feed := &realtimeFeed{conn: conn, cancel: cancel, done: make(chan struct{})}
	c.mu.Lock()
	c.realtime = feed
	c.mu.Unlock()

	go c.readRealtime(feedCtx, feed)
	return nil
}

// StopRealtime closes the feed. Safe to call when no feed is active.
func (c *HTTPClient) StopRealtime() {
	c.mu.Lock()
	feed := c.realtime
	c.realtime = nil
	c.mu.Unlock()
	if feed == nil {
		return
	}
	feed.cancel()
	_ = feed.conn.Close()
	<-feed.done
}

func (c *HTTPClient) readRealtime(ctx context.Context, feed *realtimeFeed) {
	defer close(feed.done)
	for {
		var ev wireAuthEvent
		if err := feed.conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				log.Printf("[gateway] realtime feed closed: %v", err)
			}
			return
		}
		c.dispatchRealtime(ev)
	}
}

func (c *HTTPClient) dispatchRealtime(ev wireAuthEvent) {
	switch AuthEventType(ev.Event) {
	case EventSignedOut:
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		c.emit(AuthEvent{Type: EventSignedOut})
	case EventTokenRefresh:
		c.refreshSession(ev.Session)
	case EventSignedIn:
		// Local sign-in already emitted; a pushed SIGNED_IN means another
		// device signed in with this account. Keep our session untouched.
	default:
		log.Printf("[gateway] ignoring unknown realtime event %q", ev.Event)
	}
}

// refreshSession swaps tokens in place without changing identity.
func (c *HTTPClient) refreshSession(env sessionEnvelope) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	s := *c.session
	s.AccessToken = env.AccessToken
	if env.RefreshToken != "" {
		s.RefreshToken = env.RefreshToken
	}
	if claims := parseClaims(env.AccessToken); claims != nil && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	c.session = &s
	c.mu.Unlock()
	c.emit(AuthEvent{Type: EventTokenRefresh, Session: &model.Session{
		UserID:      s.UserID,
		Email:       s.Email,
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt,
	}})
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}
