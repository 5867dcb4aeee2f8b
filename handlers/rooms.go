package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"wchat/models"
	"wchat/store"
)

// RoomHandler serves the room-management endpoints used by customers (room
// creation at login) and counselors (the waiting-room listing).
type RoomHandler struct {
	Store store.RoomStore
}

// Create handles POST /chat/room?name=... and returns the new room.
func (h *RoomHandler) Create(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	room, err := h.Store.Create(c.UserContext(), name)
	if err != nil {
		slog.Error("create room", "name", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create room"})
	}

	slog.Info("room created", "room", room.RoomID, "customer", room.CustomerName)
	return c.JSON(room)
}

// List handles GET /chat/rooms.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	rooms, err := h.Store.ListAll(c.UserContext())
	if err != nil {
		slog.Error("list rooms", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list rooms"})
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return c.JSON(rooms)
}
