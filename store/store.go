package store

import (
	"context"
	"errors"

	"wchat/models"
)

// ErrRoomNotFound is returned when a room id references no stored room.
var ErrRoomNotFound = errors.New("room not found")

// RoomStore is the shared table of room state. Save is a full overwrite of
// the record keyed by roomId; there is no compare-and-swap, so concurrent
// writers to the same room race last-write-wins.
type RoomStore interface {
	// Create allocates a room in its default state and stores it.
	Create(ctx context.Context, name string) (models.Room, error)
	// Get returns the room or ErrRoomNotFound.
	Get(ctx context.Context, roomID string) (models.Room, error)
	// ListAll returns every stored room in no particular order.
	ListAll(ctx context.Context) ([]models.Room, error)
	// Save overwrites the stored record for room.RoomID.
	Save(ctx context.Context, room models.Room) error
}
