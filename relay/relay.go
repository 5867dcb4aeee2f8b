package relay

import (
	"fmt"

	"wchat/models"
)

// Subscriber is the inbound side of the broadcast bus.
type Subscriber interface {
	Subscribe(handler func(models.ChatEvent)) (func(), error)
}

// Relay turns bus deliveries into local client pushes. One relay runs per
// process, subscribed for the process lifetime; it forwards each event to
// the clients attached to the event's room, and copies REQ_COUNSELOR
// events to every counselor session so the call is seen no matter which
// room raised it.
type Relay struct {
	bus      Subscriber
	registry *Registry
	stop     func()
}

func New(bus Subscriber, registry *Registry) *Relay {
	return &Relay{bus: bus, registry: registry}
}

// Start subscribes to the bus. Call once at process startup.
func (r *Relay) Start() error {
	stop, err := r.bus.Subscribe(r.handle)
	if err != nil {
		return fmt.Errorf("relay subscribe: %w", err)
	}
	r.stop = stop
	return nil
}

// Stop cancels the bus subscription.
func (r *Relay) Stop() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

func (r *Relay) handle(ev models.ChatEvent) {
	r.registry.deliverRoom(ev)
	if ev.Type == models.EventReqCounselor {
		r.registry.deliverCounselors(ev)
	}
}
