package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wchat/models"
)

// askPath is the question endpoint on the external bot server.
const askPath = "/api/ask"

// Publisher fans the bot's answer out on the broadcast bus.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChatEvent) error
}

// Bridge is the integration boundary to the external reply bot. The two
// directions are fully decoupled: Ask fires a question and forgets it, and
// the bot answers later through the callback endpoint, correlated only by
// roomId. Concurrent questions for one room may therefore be answered out
// of order.
type Bridge struct {
	client  *http.Client
	baseURL string
	bus     Publisher
}

// New builds a bridge against baseURL. The timeout bounds each outbound
// call so a hung bot server cannot pile up goroutines.
func New(baseURL string, timeout time.Duration, bus Publisher) *Bridge {
	return &Bridge{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		bus:     bus,
	}
}

// Ask sends the event to the bot server without blocking the caller. A
// failed call is logged and dropped: the bot path must never disturb the
// human-visible conversation, and there is no retry.
func (b *Bridge) Ask(ev models.ChatEvent) {
	go func() {
		body, err := json.Marshal(ev)
		if err != nil {
			slog.Error("encode bot question", "room", ev.RoomID, "error", err)
			return
		}

		resp, err := b.client.Post(b.baseURL+askPath, "application/json", bytes.NewReader(body))
		if err != nil {
			slog.Warn("bot call failed", "room", ev.RoomID, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			slog.Warn("bot call rejected", "room", ev.RoomID, "status", resp.StatusCode)
			return
		}
		slog.Info("question sent to bot", "room", ev.RoomID)
	}()
}

// HandleCallback takes the bot's asynchronous answer, extracts the reply
// text from the raw payload, and publishes it to the room as an ordinary
// TALK from the bot.
func (b *Bridge) HandleCallback(ctx context.Context, roomID, rawText string) error {
	reply := ExtractReply(rawText)

	ev := models.ChatEvent{
		Type:    models.EventTalk,
		RoomID:  roomID,
		Sender:  models.BotSender,
		Message: reply,
	}
	if err := b.bus.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish bot reply: %w", err)
	}
	return nil
}
