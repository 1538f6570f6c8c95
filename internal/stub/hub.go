package stub

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// authPush is the message shape on the realtime auth channel.
type authPush struct {
	Event   string `json:"event"`
	Session any    `json:"session,omitempty"`
}

// Hub tracks the realtime auth connections per user and pushes session
// events to them. Connections attach with a verified token; anonymous
// connections are attached under the empty user id and only ever see
// broadcasts.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev gateway, same-host clients only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Attach upgrades the request and parks the connection until the peer
// goes away. Blocks for the connection lifetime.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime] upgrade failed: %v", err)
		return
	}
	h.add(userID, conn)
	defer h.remove(userID, conn)

	// Drain reads so we notice the close; clients never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.conns[userID] = set
	}
	set[conn] = struct{}{}
}

func (h *Hub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

// Push sends an auth event to every connection of one user.
func (h *Hub) Push(userID, event string, session any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	msg := authPush{Event: event, Session: session}
	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[realtime] push to %s failed: %v", userID, err)
		}
	}
}
