package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"wchat/config"
	"wchat/models"
	"wchat/relay"
	"wchat/router"
	"wchat/store"
)

const clientBuffer = 256

type Client struct {
	Conn     *websocket.Conn
	Router   *router.Router
	Local    *relay.LocalClient
	RoomID   string
	Identity string
	DoneChan chan struct{} // closed by the reader to stop the writer
}

func NewClient(conn *websocket.Conn, rt *router.Router, roomID, identity string) *Client {
	return &Client{
		Conn:     conn,
		Router:   rt,
		Local:    relay.NewLocalClient(uuid.NewString(), clientBuffer),
		RoomID:   roomID,
		Identity: identity,
		DoneChan: make(chan struct{}),
	}
}

// HandleRead reads event frames from the socket and dispatches them.
func (c *Client) HandleRead(ctx context.Context) {
	defer func() {
		slog.Info("reader closed", "room", c.RoomID, "client", c.Local.ID)
		close(c.DoneChan)
	}()
	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		var ev models.ChatEvent
		if err := c.Conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "client", c.Local.ID, "error", err)
			} else {
				slog.Info("websocket closed", "client", c.Local.ID, "error", err)
			}
			return
		}

		// The session is bound to one room; the frame cannot address another.
		ev.RoomID = c.RoomID
		if ev.Sender == "" {
			ev.Sender = c.Identity
		}

		dispatchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.Router.Dispatch(dispatchCtx, ev)
		cancel()
		if err != nil {
			slog.Warn("dispatch failed", "room", c.RoomID, "type", ev.Type, "error", err)
			if errors.Is(err, store.ErrRoomNotFound) {
				c.notify("채팅방을 찾을 수 없습니다.")
			}
		}
	}
}

// notify queues a system line for this client only, through the same
// channel the writer drains, so the socket is never written concurrently.
func (c *Client) notify(text string) {
	ev := models.ChatEvent{
		Type:    models.EventTalk,
		RoomID:  c.RoomID,
		Sender:  "SYSTEM",
		Message: text,
	}
	select {
	case c.Local.Events <- ev:
	default:
	}
}

// HandleWrite drains the client's event buffer onto the socket and keeps
// the connection alive with pings.
func (c *Client) HandleWrite() {
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		slog.Info("writer closed", "room", c.RoomID, "client", c.Local.ID)
	}()

	for {
		select {
		case ev, ok := <-c.Local.Events:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(ev); err != nil {
				slog.Warn("websocket write error", "client", c.Local.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("websocket ping error", "client", c.Local.ID, "error", err)
				return
			}

		case <-c.DoneChan:
			return
		}
	}
}

// HandleWebSocket manages one chat session for its whole lifetime. The
// session is attached to `:roomID`; `?role=counselor` additionally attaches
// it to the global counselor-notification feed.
func HandleWebSocket(conn *websocket.Conn, rt *router.Router, registry *relay.Registry) {
	roomID := conn.Params("roomID")
	if roomID == "" {
		slog.Warn("websocket connect without roomID")
		conn.WriteJSON(map[string]string{"error": "missing roomID"})
		conn.Close()
		return
	}

	// Identity comes from the client until an auth layer exists.
	identity := conn.Query("name")
	counselor := conn.Query("role") == "counselor"
	if identity == "" {
		if counselor {
			identity = "counselor_" + uuid.NewString()[:6]
		} else {
			identity = "guest_" + uuid.NewString()[:6]
		}
	}

	client := NewClient(conn, rt, roomID, identity)
	slog.Info("client connected", "room", roomID, "identity", identity, "client", client.Local.ID)

	registry.AddClient(roomID, client.Local)
	if counselor {
		registry.AddCounselor(client.Local)
	}

	defer func() {
		registry.RemoveClient(roomID, client.Local.ID)
		if counselor {
			registry.RemoveCounselor(client.Local.ID)
		}
		// Safe once deregistered: the relay no longer holds this client.
		close(client.Local.Events)
		conn.Close()
	}()

	go client.HandleWrite()
	client.HandleRead(context.Background())
}
