package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"wchat/bot"
	"wchat/models"
)

// BotCallbackHandler is the ingress for the bot server's asynchronous
// answers. The endpoint always answers 200: a malformed or unpublishable
// callback is the bot path's problem and must never bounce back to the bot.
type BotCallbackHandler struct {
	Bridge *bot.Bridge
}

// Callback handles POST /chat/bot/callback. The body's message field may
// be plain text or a blob with embedded JSON; the bridge sorts that out.
func (h *BotCallbackHandler) Callback(c *fiber.Ctx) error {
	var ev models.ChatEvent
	if err := c.BodyParser(&ev); err != nil {
		slog.Warn("undecodable bot callback body", "error", err)
		return c.SendStatus(fiber.StatusOK)
	}

	slog.Info("bot callback received", "room", ev.RoomID)
	if err := h.Bridge.HandleCallback(c.UserContext(), ev.RoomID, ev.Message); err != nil {
		slog.Error("bot reply not delivered", "room", ev.RoomID, "error", err)
	}
	return c.SendStatus(fiber.StatusOK)
}
