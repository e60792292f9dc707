package events

import (
	"sync"
	"time"
)

type Type string

const (
	RoundStarted        = Type("round_started")
	Placement           = Type("placement")
	RoundFinished       = Type("round_finished")
	AchievementUnlocked = Type("achievement_unlocked")
)

// Event is pushed to the player it belongs to. Data holds the payload for
// the event type.
type Event struct {
	Type      Type      `json:"type"`
	PlayerID  string    `json:"-"`
	SessionID string    `json:"sessionId,omitempty"`
	At        time.Time `json:"at"`
	Data      any       `json:"data,omitempty"`
}

const DefaultBufferSize = 64

// Bus is a buffered, non-blocking event queue with a single consumer.
type Bus struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

func NewBus(size int) *Bus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Bus{ch: make(chan Event, size)}
}

// Publish enqueues ev and reports whether it was accepted. Events are
// dropped when the buffer is full or the bus is closed.
func (b *Bus) Publish(ev Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case b.ch <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Close stops accepting events; the consumer drains what is queued.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
