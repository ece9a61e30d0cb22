// Package ws pushes queue board events to connected websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	EventPasienRegistered = "pasien_registered"
	EventAntrianUpdate    = "antrian_update"
	EventAntrianCalled    = "antrian_called"
)

// Event is the frame every client receives.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is what controllers need from the hub.
type Publisher interface {
	Publish(eventType string, data interface{})
}

// Client is one websocket connection.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub keeps the connected clients and fans broadcasts out to them. All
// client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
// On exit every client's Send channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			h.drop(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.log.Debug().Str("client_id", client.ID).Msg("client registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Debug().Str("client_id", client.ID).Msg("client unregistered")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.log.Warn().Str("client_id", client.ID).Msg("send buffer full, dropping client")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.count.Add(-1)
}

// Publish wraps data in an Event and queues it for every client. It never
// blocks a request: once the hub has stopped, events are discarded.
func (h *Hub) Publish(eventType string, data interface{}) {
	msg, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error().Err(err).Str("type", eventType).Msg("marshal event")
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
