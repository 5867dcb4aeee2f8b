package relay

import (
	"log/slog"
	"sync"

	"wchat/models"
)

// LocalClient is one websocket session attached to this process. Events
// land in the buffered channel; the session's write pump drains it.
type LocalClient struct {
	ID     string
	Events chan models.ChatEvent
}

func NewLocalClient(id string, buffer int) *LocalClient {
	return &LocalClient{
		ID:     id,
		Events: make(chan models.ChatEvent, buffer),
	}
}

// Registry tracks which local clients are attached to which room, plus the
// set of counselor sessions watching the global notification feed.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]map[string]*LocalClient // roomId -> clientId -> client
	counselors map[string]*LocalClient
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:      make(map[string]map[string]*LocalClient),
		counselors: make(map[string]*LocalClient),
	}
}

func (r *Registry) AddClient(roomID string, c *LocalClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]*LocalClient)
	}
	r.rooms[roomID][c.ID] = c
	slog.Info("client attached", "room", roomID, "client", c.ID, "total", len(r.rooms[roomID]))
}

func (r *Registry) RemoveClient(roomID, clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(clients, clientID)
	if len(clients) == 0 {
		delete(r.rooms, roomID)
	}
	slog.Info("client detached", "room", roomID, "client", clientID)
}

func (r *Registry) AddCounselor(c *LocalClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counselors[c.ID] = c
	slog.Info("counselor feed attached", "client", c.ID, "total", len(r.counselors))
}

func (r *Registry) RemoveCounselor(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.counselors, clientID)
	slog.Info("counselor feed detached", "client", clientID)
}

// deliverRoom pushes the event to every client attached to its room.
// Delivery is best-effort: a client whose buffer is full misses the event.
func (r *Registry) deliverRoom(ev models.ChatEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.rooms[ev.RoomID] {
		select {
		case c.Events <- ev:
		default:
			slog.Warn("client buffer full, dropping event", "room", ev.RoomID, "client", c.ID)
		}
	}
}

// deliverCounselors pushes the event to every counselor session.
func (r *Registry) deliverCounselors(ev models.ChatEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.counselors {
		select {
		case c.Events <- ev:
		default:
			slog.Warn("counselor buffer full, dropping event", "client", c.ID)
		}
	}
}
