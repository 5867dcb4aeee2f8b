package store

import (
	"context"
	"fmt"
	"sync"

	"wchat/models"
)

// MemStore is an in-process RoomStore for single-server deployments and
// tests. State is lost on restart and not visible to other processes.
type MemStore struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewMemStore() *MemStore {
	return &MemStore{rooms: make(map[string]models.Room)}
}

func (s *MemStore) Create(_ context.Context, name string) (models.Room, error) {
	room := models.NewRoom(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.RoomID] = room
	return room, nil
}

func (s *MemStore) Get(_ context.Context, roomID string) (models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return models.Room{}, fmt.Errorf("room %q: %w", roomID, ErrRoomNotFound)
	}
	return room, nil
}

func (s *MemStore) ListAll(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *MemStore) Save(_ context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.RoomID] = room
	return nil
}
