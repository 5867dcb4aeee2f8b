package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"wchat/models"
	"wchat/store"
)

// Publisher fans an event out to every process on the broadcast bus.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChatEvent) error
}

// BotAsker forwards a customer question to the external reply bot.
// Implementations must not block the caller.
type BotAsker interface {
	Ask(ev models.ChatEvent)
}

// Router is the room state machine. Every inbound client event passes
// through Dispatch, which mutates room state, publishes the outbound
// event, and decides whether the bot should be asked.
type Router struct {
	store store.RoomStore
	bus   Publisher
	bot   BotAsker

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-room dispatch serialization
}

func New(roomStore store.RoomStore, bus Publisher, bot BotAsker) *Router {
	return &Router{
		store: roomStore,
		bus:   bus,
		bot:   bot,
		locks: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing dispatches for a room. Locks are
// kept for the process lifetime, matching rooms, which are never deleted.
func (r *Router) roomLock(roomID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[roomID] = lock
	}
	return lock
}

// Dispatch applies one inbound event to its room.
//
// REQ_COUNSELOR parks the room back in WAITING and rewrites the message to
// the counselor-call notice; ACCEPT hands the room to a human (botMode off,
// ON_AIR) and rewrites the message to the connected notice; every other
// type passes through untouched. The resulting event is always published.
// If the room is still bot-handled after the mutation and the event is a
// TALK, the bot is asked — so a TALK arriving after an ACCEPT correctly
// skips the bot.
//
// An unknown roomId fails with store.ErrRoomNotFound before anything is
// published or asked.
func (r *Router) Dispatch(ctx context.Context, ev models.ChatEvent) error {
	lock := r.roomLock(ev.RoomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := r.store.Get(ctx, ev.RoomID)
	if err != nil {
		return err
	}

	switch ev.Type {
	case models.EventReqCounselor:
		room.Status = models.StatusWaiting
		if err := r.store.Save(ctx, room); err != nil {
			return fmt.Errorf("save room %q: %w", room.RoomID, err)
		}
		ev.Message = ev.Sender + " 고객님이 상담사를 호출했습니다."

	case models.EventAccept:
		room.BotMode = false
		room.Status = models.StatusOnAir
		if err := r.store.Save(ctx, room); err != nil {
			return fmt.Errorf("save room %q: %w", room.RoomID, err)
		}
		ev.Message = "상담원이 연결되었습니다."
	}

	if err := r.bus.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	if room.BotMode && ev.Type == models.EventTalk {
		slog.Debug("forwarding question to bot", "room", ev.RoomID, "sender", ev.Sender)
		r.bot.Ask(ev)
	}

	return nil
}
