package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/modules/booking"
	"travelagency/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024 // 64 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The handshake itself is open; write requests are checked per message
	// against the configured origin instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Saver persists bookings pushed over a context connection. Hub saves never
// overwrite an existing record with the same id; a colliding record gets a
// fresh id instead.
type Saver interface {
	Save(ctx context.Context, in domain.Booking, opts booking.SaveOptions) (string, error)
}

// client is one connected browsing context. The origin it declared at
// upgrade time is pinned for the connection's lifetime.
type client struct {
	id     string
	origin string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans collection-change events out to every connected context and
// accepts save requests from contexts on the trusted origin.
type Hub struct {
	mu      sync.RWMutex
	origin  string
	saver   Saver
	clients map[string]*client
}

func New(origin string, saver Saver) *Hub {
	return &Hub{
		origin:  origin,
		saver:   saver,
		clients: make(map[string]*client),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	metrics.HubClients.Set(float64(len(h.clients)))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.id]; ok && existing == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	metrics.HubClients.Set(float64(len(h.clients)))
}

// OnCollectionChanged notifies every context that a collection was written.
// Receivers reload the collection themselves; the event carries no data.
func (h *Hub) OnCollectionChanged(collection string) {
	data, err := json.Marshal(changeEvent{Type: msgCollectionChanged, Collection: collection})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client, skip.
		}
	}
}

// ServeWS upgrades the request and runs the connection until disconnect.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	cl := &client{
		id:     uuid.NewString(),
		origin: c.GetHeader("Origin"),
		conn:   conn,
		send:   make(chan []byte, 256),
	}
	h.register(cl)

	go h.writePump(cl)
	h.readPump(cl) // blocks until disconnect
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		h.handleMessage(context.Background(), c, msg)
	}
}

// handleMessage processes one inbound frame. Malformed frames and frames
// from an untrusted origin are dropped without a reply, so a hostile
// context learns nothing from probing.
func (h *Hub) handleMessage(ctx context.Context, c *client, msg []byte) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return
	}
	if env.Type != msgSaveBooking || len(env.Payload) == 0 {
		return
	}
	if c.origin != h.origin {
		return
	}

	id, err := h.saver.Save(ctx, env.Payload, booking.SaveOptions{Source: "hub"})
	if err != nil {
		return
	}

	ack, err := json.Marshal(saveAck{Type: msgSaveBookingOK, BookingID: id})
	if err != nil {
		return
	}
	// Acknowledge the sender only; everyone else hears about the write
	// through the collection-changed broadcast.
	select {
	case c.send <- ack:
	default:
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
