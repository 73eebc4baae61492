package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/aizatop/alive/internal/pkg/logx"
)

const subscriberSendBuffer = 64

// Subscriber is one established push channel: a table, an optional
// one-column equality filter, and a buffered delivery channel.
type Subscriber struct {
	// ID uniquely identifies the subscription within the hub.
	ID string

	// Table is the table whose inserts this subscriber wants.
	Table string

	// FilterColumn/FilterValue restrict delivery to rows whose column
	// equals the value. An empty column delivers every insert on Table.
	FilterColumn string
	FilterValue  string

	// Send receives matching events. Closed by the hub on unregister.
	Send chan InsertEvent
}

// NewSubscriber builds a subscriber with a buffered delivery channel.
func NewSubscriber(id, table, filterColumn, filterValue string) *Subscriber {
	return &Subscriber{
		ID:           id,
		Table:        table,
		FilterColumn: filterColumn,
		FilterValue:  filterValue,
		Send:         make(chan InsertEvent, subscriberSendBuffer),
	}
}

// Hub owns the set of active subscribers and fans insert events out to the
// ones whose filter matches. All state changes flow through the Run loop.
type Hub struct {
	subscribers map[string]*Subscriber

	register   chan *Subscriber
	unregister chan string
	dispatch   chan InsertEvent
	stop       chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan string),
		dispatch:    make(chan InsertEvent, 256),
		stop:        make(chan struct{}),
		logger:      logx.Logger().With().Str("component", "realtime.Hub").Logger(),
	}
}

// Run starts the hub's event loop. It returns after Shutdown.
func (h *Hub) Run() {
	h.wg.Add(1)
	defer h.wg.Done()

	h.logger.Info().Msg("Realtime hub started.")

	for {
		select {
		case sub := <-h.register:
			if old, ok := h.subscribers[sub.ID]; ok {
				close(old.Send)
			}
			h.subscribers[sub.ID] = sub
			h.logger.Info().
				Str("subscription_id", sub.ID).
				Str("table", sub.Table).
				Int("total", len(h.subscribers)).
				Msg("Subscriber registered.")

		case id := <-h.unregister:
			if sub, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(sub.Send)
				h.logger.Info().
					Str("subscription_id", id).
					Int("total", len(h.subscribers)).
					Msg("Subscriber removed.")
			}

		case ev := <-h.dispatch:
			for _, sub := range h.subscribers {
				if sub.Table != ev.Table || !ev.MatchesFilter(sub.FilterColumn, sub.FilterValue) {
					continue
				}

				select {
				case sub.Send <- ev:
				default:
					h.logger.Warn().
						Str("subscription_id", sub.ID).
						Str("table", ev.Table).
						Msg("Subscriber channel full, dropping event.")
				}
			}

		case <-h.stop:
			for id, sub := range h.subscribers {
				delete(h.subscribers, id)
				close(sub.Send)
			}
			h.logger.Info().Msg("Realtime hub stopped.")
			return
		}
	}
}

// Register adds a subscriber to the hub.
func (h *Hub) Register(sub *Subscriber) {
	select {
	case h.register <- sub:
	case <-h.stop:
	}
}

// Unregister removes a subscriber and closes its channel. Unknown ids are
// ignored, so calling it for an already-removed subscriber is safe.
func (h *Hub) Unregister(id string) {
	select {
	case h.unregister <- id:
	case <-h.stop:
	}
}

// Dispatch hands an insert event to the fan-out loop.
func (h *Hub) Dispatch(ev InsertEvent) {
	select {
	case h.dispatch <- ev:
	case <-h.stop:
	}
}

// Shutdown stops the Run loop and closes every subscriber channel.
// Safe to call more than once.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	h.wg.Wait()
}
