// Package realtime fans availability and appointment events out to connected
// browsers over SockJS.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
)

// Event types published by the API.
const (
	EventFacultyStatusChanged     = "faculty.status_changed"
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// Subscription narrows what a client receives. Empty fields match everything.
type Subscription struct {
	FacultyID  string
	Department string
}

// Publisher is implemented by anything that can deliver events to subscribers.
type Publisher interface {
	Publish(eventType string, payload interface{}, meta Subscription)
}

type Client struct {
	ID           string
	Send         chan []byte
	Subscription Subscription
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	now     func() time.Time
}

type SubscribeMessage struct {
	Action     string `json:"action"`
	FacultyID  string `json:"facultyId"`
	Department string `json:"department"`
}

type envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"createdAt"`
}

var _ Publisher = (*Hub)(nil)

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}, Subscription) {}

func New() *Hub {
	return &Hub{clients: make(map[string]*Client), now: time.Now}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) UpdateSubscription(client *Client, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.Subscription = sub
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload for every matching client. Slow clients lose the message.
func (h *Hub) Broadcast(payload []byte, meta Subscription) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !match(client.Subscription, meta) {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("realtime: drop message for client %s", client.ID)
		}
	}
}

// Publish wraps payload in an event envelope and broadcasts it.
func (h *Hub) Publish(eventType string, payload interface{}, meta Subscription) {
	data, err := json.Marshal(envelope{Type: eventType, Payload: payload, CreatedAt: h.now().UTC()})
	if err != nil {
		log.Printf("realtime: marshal %s: %v", eventType, err)
		return
	}
	h.Broadcast(data, meta)
}

func match(sub Subscription, meta Subscription) bool {
	if sub.FacultyID != "" && meta.FacultyID != sub.FacultyID {
		return false
	}
	if sub.Department != "" && meta.Department != sub.Department {
		return false
	}
	return true
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}

// Handler serves the SockJS endpoint under prefix.
func (h *Hub) Handler(prefix string) http.Handler {
	return sockjs.NewHandler(prefix, sockjs.DefaultOptions, h.serve)
}

func (h *Hub) serve(session sockjs.Session) {
	client := &Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
	h.Register(client)
	defer h.Unregister(client)

	go func() {
		for msg := range client.Send {
			if err := session.Send(string(msg)); err != nil {
				return
			}
		}
	}()

	for {
		msg, err := session.Recv()
		if err != nil {
			return
		}
		parsed, ok := ParseSubscribe([]byte(msg))
		if !ok {
			continue
		}
		if parsed.Action == "unsubscribe" {
			h.UpdateSubscription(client, Subscription{})
			continue
		}
		h.UpdateSubscription(client, Subscription{
			FacultyID:  parsed.FacultyID,
			Department: parsed.Department,
		})
	}
}
