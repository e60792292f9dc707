package broadcast

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordix/internal/events"
)

type recordingSink struct {
	mu   sync.Mutex
	sent map[string][][]byte
}

func (s *recordingSink) SendToPlayer(playerID string, data []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[string][][]byte)
	}
	s.sent[playerID] = append(s.sent[playerID], data)
	return 1
}

func TestBroadcaster_ForwardsToPlayer(t *testing.T) {
	bus := events.NewBus(8)
	sink := &recordingSink{}
	b := NewBroadcaster(bus, sink, zap.NewNop())

	bus.Publish(events.Event{Type: events.RoundStarted, PlayerID: "p1", SessionID: "s1", Data: map[string]int{"index": 3}})
	bus.Publish(events.Event{Type: events.Placement, PlayerID: "p2"})
	bus.Close()

	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatal("broadcaster did not drain the bus")
	}

	require.Len(t, sink.sent["p1"], 1)
	require.Len(t, sink.sent["p2"], 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal(sink.sent["p1"][0], &got))
	assert.Equal(t, "round_started", got["type"])
	assert.Equal(t, "s1", got["sessionId"])
	assert.NotContains(t, got, "PlayerID")
	assert.Equal(t, map[string]any{"index": 3.0}, got["data"])
}

func TestBroadcaster_SkipsUnencodableEvents(t *testing.T) {
	bus := events.NewBus(8)
	sink := &recordingSink{}
	b := NewBroadcaster(bus, sink, zap.NewNop())

	bus.Publish(events.Event{Type: events.Placement, PlayerID: "p1", Data: make(chan int)})
	bus.Publish(events.Event{Type: events.Placement, PlayerID: "p1"})
	bus.Close()
	<-b.Done()

	assert.Len(t, sink.sent["p1"], 1)
}
