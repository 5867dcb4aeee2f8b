package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wchat/bot"
	"wchat/models"
	"wchat/relay"
	"wchat/store"
)

// memBus is an in-process broadcast bus: every publish is delivered to
// every subscribed handler, the publisher's own included.
type memBus struct {
	mu       sync.Mutex
	handlers []func(models.ChatEvent)
}

func (b *memBus) Publish(_ context.Context, ev models.ChatEvent) error {
	b.mu.Lock()
	handlers := append(([]func(models.ChatEvent))(nil), b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *memBus) Subscribe(handler func(models.ChatEvent)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
	return func() {}, nil
}

func recvEvent(t *testing.T, c *relay.LocalClient) models.ChatEvent {
	t.Helper()
	select {
	case ev := <-c.Events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a delivered event")
		return models.ChatEvent{}
	}
}

// TestCustomerTalkBotRoundTrip walks the whole flow: a customer talks in a
// fresh room, the bot is asked, and the bot's asynchronous callback comes
// back to the room's subscribers as an AI_BOT TALK.
func TestCustomerTalkBotRoundTrip(t *testing.T) {
	ctx := context.Background()

	st := store.NewMemStore()
	bus := &memBus{}

	registry := relay.NewRegistry()
	rel := relay.New(bus, registry)
	if err := rel.Start(); err != nil {
		t.Fatalf("start relay: %v", err)
	}
	defer rel.Stop()

	asked := make(chan models.ChatEvent, 1)
	botSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev models.ChatEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("decode bot question: %v", err)
		}
		asked <- ev
	}))
	defer botSrv.Close()

	bridge := bot.New(botSrv.URL, time.Second, bus)
	rt := New(st, bus, bridge)

	room, err := st.Create(ctx, "영희")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if !room.BotMode || room.Status != models.StatusWaiting {
		t.Fatalf("fresh room in wrong state: %+v", room)
	}

	customer := relay.NewLocalClient("customer", 8)
	registry.AddClient(room.RoomID, customer)
	bystander := relay.NewLocalClient("bystander", 8)
	registry.AddClient("another-room", bystander)

	// Customer talks while the room is bot-handled.
	talk := models.ChatEvent{Type: models.EventTalk, RoomID: room.RoomID, Sender: "영희", Message: "hi"}
	if err := rt.Dispatch(ctx, talk); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if got := recvEvent(t, customer); got != talk {
		t.Errorf("room subscriber got %+v, want the TALK unchanged", got)
	}

	select {
	case q := <-asked:
		if q.Message != "hi" {
			t.Errorf("bot asked with %q, want %q", q.Message, "hi")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bot was never asked")
	}

	// The bot answers later through the callback path.
	raw := `{"message":"hello, how can I help"}`
	if err := bridge.HandleCallback(ctx, room.RoomID, raw); err != nil {
		t.Fatalf("callback: %v", err)
	}

	reply := recvEvent(t, customer)
	if reply.Type != models.EventTalk {
		t.Errorf("reply type = %s, want TALK", reply.Type)
	}
	if reply.Sender != models.BotSender {
		t.Errorf("reply sender = %s, want AI_BOT", reply.Sender)
	}
	if reply.Message != "hello, how can I help" {
		t.Errorf("reply message = %q", reply.Message)
	}

	if len(bystander.Events) != 0 {
		t.Error("another room's subscriber saw this room's traffic")
	}
}
