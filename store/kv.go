package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"wchat/models"
)

// KVStore keeps rooms in a JetStream key-value bucket, so every server
// process sees the same table regardless of which one created a room.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore binds to the named bucket, creating it if it does not exist.
func NewKVStore(ctx context.Context, nc *nats.Conn, bucket string) (*KVStore, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		slog.Info("room bucket not found, creating", "bucket", bucket)
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "Chat room state, keyed by roomId",
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return &KVStore{kv: kv}, nil
}

func (s *KVStore) Create(ctx context.Context, name string) (models.Room, error) {
	room := models.NewRoom(name)
	if err := s.Save(ctx, room); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (s *KVStore) Get(ctx context.Context, roomID string) (models.Room, error) {
	entry, err := s.kv.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return models.Room{}, fmt.Errorf("room %q: %w", roomID, ErrRoomNotFound)
		}
		return models.Room{}, fmt.Errorf("get room %q: %w", roomID, err)
	}

	var room models.Room
	if err := json.Unmarshal(entry.Value(), &room); err != nil {
		return models.Room{}, fmt.Errorf("decode room %q: %w", roomID, err)
	}
	return room, nil
}

func (s *KVStore) ListAll(ctx context.Context) ([]models.Room, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list room keys: %w", err)
	}

	rooms := make([]models.Room, 0, len(keys))
	for _, key := range keys {
		room, err := s.Get(ctx, key)
		if err != nil {
			// A room deleted between Keys and Get is not an error for the listing.
			if errors.Is(err, ErrRoomNotFound) {
				continue
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *KVStore) Save(ctx context.Context, room models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %q: %w", room.RoomID, err)
	}
	if _, err := s.kv.Put(ctx, room.RoomID, data); err != nil {
		return fmt.Errorf("save room %q: %w", room.RoomID, err)
	}
	return nil
}
