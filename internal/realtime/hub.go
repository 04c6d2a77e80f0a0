package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Subscription filters the events a client receives. Zero fields match any value.
type Subscription struct {
	BranchID    uint   `json:"branch_id"`
	Date        string `json:"date"`
	ServiceType string `json:"service_type"`
}

func (s Subscription) Matches(event Subscription) bool {
	if s.BranchID != 0 && event.BranchID != s.BranchID {
		return false
	}
	if s.Date != "" && event.Date != s.Date {
		return false
	}
	if s.ServiceType != "" && event.ServiceType != s.ServiceType {
		return false
	}
	return true
}

type Client struct {
	ID   string
	Send chan []byte

	subscribed   bool
	subscription Subscription
}

func NewClient(id string) *Client {
	return &Client{ID: id, Send: make(chan []byte, 16)}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.Send)
}

func (h *Hub) Subscribe(c *Client, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.subscribed = true
	c.subscription = sub
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.subscribed = false
	c.subscription = Subscription{}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast hands payload to every subscribed client whose filter matches
// scope. Slow clients lose the message instead of stalling the others.
func (h *Hub) Broadcast(payload []byte, scope Subscription) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, c := range h.clients {
		if !c.subscribed || !c.subscription.Matches(scope) {
			continue
		}
		select {
		case c.Send <- payload:
			delivered++
		default:
			log.Warn().Str("client_id", c.ID).Msg("realtime client buffer full, dropping message")
		}
	}
	return delivered
}

type ControlMessage struct {
	Action      string `json:"action"`
	BranchID    uint   `json:"branch_id"`
	Date        string `json:"date"`
	ServiceType string `json:"service_type"`
}

func (m ControlMessage) Subscription() Subscription {
	return Subscription{BranchID: m.BranchID, Date: m.Date, ServiceType: m.ServiceType}
}

// ParseControl accepts subscribe and unsubscribe messages only.
func ParseControl(data []byte) (ControlMessage, bool) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ControlMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return ControlMessage{}, false
	}
	return msg, true
}
