// Package websocket implements the live operations feed: connected devices
// (technician phones, the office dashboard) receive stock-changed,
// record-transition and purchase-request events as they happen.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/sunvolt/fieldopsgo/internal/models"
)

// Event is one feed entry pushed to every connected client.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventRecordTransitioned = "RECORD_TRANSITIONED"
	EventStockChanged       = "STOCK_CHANGED"
	EventPurchaseRequested  = "PURCHASE_REQUESTED"
)

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("📱 Feed client connected (%d active)", h.count())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("📴 Feed client disconnected (%d active)", h.count())

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the event rather than
					// stall the feed.
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every connected client.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("⚠️ Feed: failed to marshal %s event: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("⚠️ Feed: broadcast queue full, dropping %s event", eventType)
	}
}

// The hub doubles as the engine's notifier.

// RecordTransitioned publishes a field-record status change.
func (h *Hub) RecordTransitioned(rec *models.FieldRecord) {
	h.Broadcast(EventRecordTransitioned, rec)
}

// StockChanged publishes updated ledger numbers for one item.
func (h *Hub) StockChanged(item *models.StockItem) {
	h.Broadcast(EventStockChanged, item)
}

// PurchaseRequested publishes a freshly raised purchase request.
func (h *Hub) PurchaseRequested(pr *models.PurchaseRequest) {
	h.Broadcast(EventPurchaseRequested, pr)
}
