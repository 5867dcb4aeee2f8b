package models

// EventType classifies a chat event.
type EventType string

const (
	EventEnter        EventType = "ENTER"         // client joined a room
	EventTalk         EventType = "TALK"          // ordinary chat line
	EventReqCounselor EventType = "REQ_COUNSELOR" // customer asks for a human counselor
	EventAccept       EventType = "ACCEPT"        // counselor takes over the room
	EventBotReply     EventType = "BOT_REPLY"     // reserved for bot-originated traffic
)

// BotSender is the sender label stamped on events produced by the reply bot.
const BotSender = "AI_BOT"

// ChatEvent is the unit of traffic on the broadcast bus. Events are
// transient: built, published once, delivered, discarded.
type ChatEvent struct {
	Type    EventType `json:"type"`    // event classification
	RoomID  string    `json:"roomId"`  // room the event belongs to
	Sender  string    `json:"sender"`  // display name of the originator
	Message string    `json:"message"` // free-text payload
}
