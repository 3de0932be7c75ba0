package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// clientCommand is the inbound control message a client sends to manage its
// conversation subscriptions.
type clientCommand struct {
	Action         string    `json:"action"` // "subscribe" or "unsubscribe"
	ConversationID uuid.UUID `json:"conversation_id"`
}

// SubscribeAuthorizer decides whether the connection's user may join the room
// of the given conversation. A nil authorizer allows everything.
type SubscribeAuthorizer func(conversationID uuid.UUID) bool

// Client is one authenticated websocket connection. Every client is joined to
// its own user room on attach; conversation rooms come and go with explicit
// subscribe commands.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	userID    uuid.UUID
	authorize SubscribeAuthorizer
	logger    *slog.Logger

	send      chan []byte
	closeOnce sync.Once

	mu    sync.Mutex
	rooms map[string]struct{}
}

// NewClient wires a freshly upgraded connection into the hub and joins the
// user's personal room.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, authorize SubscribeAuthorizer, logger *slog.Logger) *Client {
	client := &Client{
		hub:       hub,
		conn:      conn,
		userID:    userID,
		authorize: authorize,
		logger:    logger,
		send:      make(chan []byte, sendBufferSize),
		rooms:     make(map[string]struct{}),
	}
	client.joinRoom(UserRoom(userID))

	return client
}

// UserID returns the authenticated owner of the connection.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Close tears the connection down; safe to call more than once. Only the
// socket is closed: the send channel stays open so concurrent publishers
// never hit a closed channel.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) joinRoom(room string) {
	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.mu.Unlock()

	c.hub.join(room, c)
}

func (c *Client) leaveRoom(room string) {
	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()

	c.hub.leave(room, c)
}

// ReadPump consumes subscription commands until the connection drops, then
// detaches the client from every room. Must run in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Detach(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed",
					slog.String("user_id", c.userID.String()),
					slog.Any("error", err))
			}

			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "subscribe":
			if c.authorize != nil && !c.authorize(cmd.ConversationID) {
				c.logger.Debug("subscribe rejected",
					slog.String("user_id", c.userID.String()),
					slog.String("conversation_id", cmd.ConversationID.String()))

				continue
			}

			c.joinRoom(ConversationRoom(cmd.ConversationID))
		case "unsubscribe":
			c.leaveRoom(ConversationRoom(cmd.ConversationID))
		}
	}
}

// WritePump flushes outbound events and keeps the connection alive with
// pings. Must run in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
