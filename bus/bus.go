package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"wchat/models"
)

// Bus is the cross-process broadcast channel, carried on a core NATS
// subject. Delivery is at-most-once and best-effort: nothing is retained,
// and every subscriber — the publishing process included — receives every
// event published while it is subscribed.
type Bus struct {
	nc      *nats.Conn
	subject string
}

// New wraps an established NATS connection. The connection is owned by the
// caller; Close drains only what the bus started.
func New(nc *nats.Conn, subject string) *Bus {
	return &Bus{nc: nc, subject: subject}
}

// Publish marshals the event and fans it out to every subscriber.
func (b *Bus) Publish(ctx context.Context, ev models.ChatEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		return fmt.Errorf("publish to %q: %w", b.subject, err)
	}
	return nil
}

// Subscribe registers handler for every event on the bus subject and
// returns a function that cancels the subscription. Payloads that do not
// decode are logged and skipped.
func (b *Bus) Subscribe(handler func(models.ChatEvent)) (func(), error) {
	sub, err := b.nc.Subscribe(b.subject, func(m *nats.Msg) {
		var ev models.ChatEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			slog.Warn("dropping undecodable bus payload", "subject", m.Subject, "error", err)
			return
		}
		handler(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %q: %w", b.subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.Warn("unsubscribe failed", "subject", b.subject, "error", err)
		}
	}, nil
}
