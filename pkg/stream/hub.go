// Package stream serves the live vehicle feed to dashboards over a websocket, alongside health
// and Prometheus endpoints.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const writeTimeout = 5 * time.Second
const maxConcurrentWrites = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks the connected websocket clients and pushes every tick snapshot to all of them.
type Hub struct {
	source VehicleSource

	mutex   sync.Mutex
	clients map[*client]struct{}
	closed  bool

	onClientsChanged func(count int)
}

func NewHub(source VehicleSource) *Hub {
	return &Hub{
		source:  source,
		clients: map[*client]struct{}{},
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.clients)
}

// Broadcast sends the snapshot as a JSON array to every client. Clients that fail to receive it
// are dropped.
func (h *Hub) Broadcast(vehicles []*ctdf.Vehicle) {
	payload, err := json.Marshal(vehicles)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode vehicle snapshot")
		return
	}

	h.mutex.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.Unlock()

	p := pool.New().WithMaxGoroutines(maxConcurrentWrites)
	for _, c := range clients {
		p.Go(func() {
			if err := c.write(payload); err != nil {
				log.Debug().Err(err).Msg("Dropping stream client")
				h.remove(c)
			}
		})
	}
	p.Wait()
}

func (h *Hub) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn}
	if !h.add(c) {
		conn.Close()
		return
	}

	go h.readUntilClosed(c)

	payload, err := json.Marshal(h.source.GetVehicles())
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode vehicle snapshot")
		return
	}
	if err := c.write(payload); err != nil {
		h.remove(c)
	}
}

// readUntilClosed discards incoming messages so control frames are handled and a closed
// connection is noticed.
func (h *Hub) readUntilClosed(c *client) {
	defer h.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every client with a going-away close frame. Clients connecting afterwards are
// turned away.
func (h *Hub) Close() {
	h.mutex.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.Unlock()

	closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(writeTimeout))
		h.remove(c)
	}
}

func (h *Hub) add(c *client) bool {
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mutex.Unlock()

	log.Debug().Int("clients", count).Msg("Stream client connected")
	h.clientsChanged(count)

	return true
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.mutex.Unlock()

	c.conn.Close()

	log.Debug().Int("clients", count).Msg("Stream client disconnected")
	h.clientsChanged(count)
}

func (h *Hub) clientsChanged(count int) {
	if h.onClientsChanged != nil {
		h.onClientsChanged(count)
	}
}
