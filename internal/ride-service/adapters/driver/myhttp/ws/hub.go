package ws

import (
	"net/http"
	"sync"
	"time"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/domain/model"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type notification struct {
	Type string      `json:"type"`
	Ride dto.RideDto `json:"ride"`
}

// riderConn serializes writes to one connection; gorilla/websocket
// allows at most one concurrent writer per conn.
type riderConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *riderConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub pushes ride lifecycle updates to connected riders. This is a
// convenience layer over the authoritative event stream; a rider who is
// not connected simply polls GET /rides instead.
type Hub struct {
	log   mylogger.Logger
	mu    sync.Mutex
	conns map[string]*riderConn // rider user id -> connection
}

func NewHub(log mylogger.Logger) *Hub {
	return &Hub{
		log:   log,
		conns: make(map[string]*riderConn),
	}
}

// Handler upgrades an authenticated rider connection.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authgw.FromContext(r.Context())
		if !ok || user.Role != authgw.RoleRider {
			http.Error(w, "only riders can subscribe to ride updates", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Action("ws_upgrade").Error("cannot upgrade connection", err)
			return
		}
		rc := &riderConn{conn: conn}

		h.mu.Lock()
		if old, exists := h.conns[user.ID]; exists {
			_ = old.conn.Close()
		}
		h.conns[user.ID] = rc
		h.mu.Unlock()

		h.log.Action("ws_connected").Info("rider subscribed", "rider_id", user.ID)
		go h.readLoop(user.ID, rc)
	}
}

// readLoop drains the connection so pings are answered and removes the
// connection on close.
func (h *Hub) readLoop(riderID string, rc *riderConn) {
	defer func() {
		h.mu.Lock()
		if h.conns[riderID] == rc {
			delete(h.conns, riderID)
		}
		h.mu.Unlock()
		_ = rc.conn.Close()
	}()
	for {
		if _, _, err := rc.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) NotifyRideUpdate(ride model.Ride) {
	h.mu.Lock()
	rc, ok := h.conns[ride.RiderUserID]
	h.mu.Unlock()
	if !ok {
		return
	}

	msg := notification{Type: "ride_status_update", Ride: dto.FromModel(ride)}
	if err := rc.writeJSON(msg); err != nil {
		h.log.Action("ws_notify").Error("cannot push ride update", err, "rider_id", ride.RiderUserID)
		h.mu.Lock()
		if h.conns[ride.RiderUserID] == rc {
			delete(h.conns, ride.RiderUserID)
		}
		h.mu.Unlock()
		_ = rc.conn.Close()
	}
}
