package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/reminder/internal/app"
	"github.com/dkovalev/reminder/internal/metrics"
	"github.com/dkovalev/reminder/internal/notifier"
)

const (
	welcomeText  = "Connected to real-time notifications."
	writeTimeout = 10 * time.Second
)

// Hub keeps the set of connected subscribers and fans messages out to
// them. A broken subscriber is dropped at write time without affecting
// delivery to the rest.
type Hub struct {
	app      *app.App
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewHub(app *app.App) *Hub {
	return &Hub{
		app:      app,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection, sends the handshake payloads and
// keeps the subscriber registered until the peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("failed to upgrade connection: %v", err)
		return
	}

	id := uuid.New().String()
	c := &client{conn: conn}
	h.register(id, c)
	defer h.unregister(id)

	if err := c.send(notifier.Info(welcomeText)); err != nil {
		log.Errorf("failed to greet subscriber %s: %v", id, err)
		return
	}

	overlapping, err := h.app.OverlappingEvents(r.Context())
	if err != nil {
		log.Errorf("failed to check overlapping events: %v", err)
	} else if len(overlapping) > 0 {
		if err := c.send(notifier.Warning(overlapping)); err != nil {
			log.Errorf("failed to warn subscriber %s: %v", id, err)
			return
		}
	}

	// Inbound frames are ignored; the read loop only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify implements notifier.Notifier over a snapshot of the registry.
func (h *Hub) Notify(m notifier.Message) {
	h.mu.Lock()
	snapshot := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		snapshot[id] = c
	}
	h.mu.Unlock()

	for id, c := range snapshot {
		if err := c.send(m); err != nil {
			log.Debugf("dropping subscriber %s: %v", id, err)
			h.unregister(id)
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
		metrics.Subscribers.Dec()
	}
}

func (h *Hub) register(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = c
	metrics.Subscribers.Inc()
	log.Debugf("subscriber %s connected", id)
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		c.conn.Close()
		delete(h.clients, id)
		metrics.Subscribers.Dec()
		log.Debugf("subscriber %s disconnected", id)
	}
}

func (c *client) send(m notifier.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
