// Package realtime fans out row change events to in-process subscribers.
package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"gymapi/internal/logger"
)

// Change types.
const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
)

// Tables that publish change events.
var Tables = []string{"appointments", "payments", "documents", "progress_logs", "workout_plans", "chat_messages", "exercises"}

// IsTable reports whether name publishes change events.
func IsTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}

// Event describes one row change.
type Event struct {
	Table    string    `json:"table"`
	Type     string    `json:"type"`
	RecordID string    `json:"record_id"`
	OrgID    string    `json:"org_id,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher is implemented by Hub. Services depend on it.
type Publisher interface {
	Publish(ev Event)
}

// Hub delivers events to subscribers of the event's table. A subscriber
// whose buffer is full misses the event; Publish never blocks.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[uint64]chan Event
	nextID  uint64
	buffer  int
	dropped atomic.Uint64
	log     *logger.Logger
}

// NewHub returns a hub whose subscriber channels hold buffer events.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		subs:   make(map[string]map[uint64]chan Event),
		buffer: buffer,
		log:    log.Component("realtime"),
	}
}

// Subscribe registers interest in table. The returned cancel func
// unsubscribes and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(table string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[table] == nil {
		h.subs[table] = make(map[uint64]chan Event)
	}
	h.subs[table][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[table], id)
			if len(h.subs[table]) == 0 {
				delete(h.subs, table)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish sends ev to every subscriber of ev.Table.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[ev.Table] {
		select {
		case ch <- ev:
		default:
			h.dropped.Add(1)
			h.log.Debug("realtime_event_dropped", logger.Fields{"table": ev.Table, "record_id": ev.RecordID})
		}
	}
}

// Subscribers returns the number of subscribers for table.
func (h *Hub) Subscribers(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
