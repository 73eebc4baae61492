package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/aizatop/alive/internal/pkg/logx"
)

// Bridge connects the hub to NATS: handler writes publish insert events to
// realtime.<table> subjects, and a wildcard consumer feeds every event back
// into the hub for WebSocket fan-out. Core pub/sub is enough here; the feed
// has no replay or buffering contract, a subscriber only sees inserts that
// happen while its channel is open.
type Bridge struct {
	nc     *nats.Conn
	sub    *nats.Subscription
	hub    *Hub
	logger zerolog.Logger
}

// NewBridge connects to the NATS server and starts consuming insert events
// into the hub.
func NewBridge(url string, hub *Hub) (*Bridge, error) {
	nc, err := nats.Connect(url, nats.Name("alive-server"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	b := &Bridge{
		nc:     nc,
		hub:    hub,
		logger: logx.Logger().With().Str("component", "realtime.Bridge").Logger(),
	}

	sub, err := nc.Subscribe(SubjectPrefix+".>", b.consume)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to insert events: %w", err)
	}
	b.sub = sub

	return b, nil
}

// Publish serializes the event onto its table's subject.
func (b *Bridge) Publish(ev InsertEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal insert event: %w", err)
	}

	if err := b.nc.Publish(ev.Subject(), data); err != nil {
		return fmt.Errorf("failed to publish insert event to %s: %w", ev.Subject(), err)
	}

	return nil
}

// consume turns a NATS message back into an InsertEvent for the hub.
func (b *Bridge) consume(msg *nats.Msg) {
	var ev InsertEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed insert event.")
		return
	}

	b.hub.Dispatch(ev)
}

// Close tears the consumer and the connection down. Unsubscribe failures
// are swallowed; there is nothing useful a caller can do with them.
func (b *Bridge) Close() {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to unsubscribe NATS consumer.")
		}
	}
	b.nc.Close()
}
