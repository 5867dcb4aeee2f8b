package models

import (
	"github.com/google/uuid"
)

// Room status values. A room starts WAITING and moves to ON_AIR when a
// counselor accepts it. ON_AIR always implies BotMode == false.
const (
	StatusWaiting = "WAITING"
	StatusOnAir   = "ON_AIR"
)

// Room is one customer conversation session.
type Room struct {
	RoomID       string `json:"roomId"`
	CustomerName string `json:"customerName"`
	BotMode      bool   `json:"botMode"` // true while the bot answers; never flips back once false
	Status       string `json:"status"`  // WAITING or ON_AIR
}

// NewRoom builds a fresh room in its default state: bot-handled, waiting.
func NewRoom(name string) Room {
	return Room{
		RoomID:       uuid.NewString(),
		CustomerName: name,
		BotMode:      true,
		Status:       StatusWaiting,
	}
}
