package broadcast

import (
	"encoding/json"

	"go.uber.org/zap"

	"ordix/internal/events"
)

// Sink delivers an encoded event to a player's live connections and returns
// how many received it.
type Sink interface {
	SendToPlayer(playerID string, data []byte) int
}

// Broadcaster drains a bus and forwards each event to its player.
type Broadcaster struct {
	sink   Sink
	logger *zap.Logger
	done   chan struct{}
}

func NewBroadcaster(bus *events.Bus, sink Sink, logger *zap.Logger) *Broadcaster {
	b := &Broadcaster{
		sink:   sink,
		logger: logger.Named("broadcast"),
		done:   make(chan struct{}),
	}
	go b.run(bus)
	return b
}

func (b *Broadcaster) run(bus *events.Bus) {
	defer close(b.done)
	for ev := range bus.Events() {
		data, err := json.Marshal(ev)
		if err != nil {
			b.logger.Error("Encoding event failed", zap.String("type", string(ev.Type)), zap.Error(err))
			continue
		}
		n := b.sink.SendToPlayer(ev.PlayerID, data)
		b.logger.Debug("Event forwarded",
			zap.String("type", string(ev.Type)),
			zap.String("playerID", ev.PlayerID),
			zap.Int("connections", n),
		)
	}
}

// Done is closed once the bus is closed and drained.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}
