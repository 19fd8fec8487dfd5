package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ClientCommand is what a connected browser sends upward: subscribe to or
// leave a chat topic.
type ClientCommand struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Client is a single websocket connection owned by one user.
type Client struct {
	UserID string
	Send   chan []byte

	hub        *Hub
	conn       *websocket.Conn
	authorizer TopicAuthorizer
	logger     *zap.Logger
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, authorizer TopicAuthorizer, logger *zap.Logger) *Client {
	return &Client{
		UserID:     userID,
		Send:       make(chan []byte, 64),
		hub:        hub,
		conn:       conn,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Serve registers the client and runs both pumps. Blocks until the
// connection drops.
func (c *Client) Serve() {
	c.hub.Register <- c
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var cmd ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		switch cmd.Action {
		case "subscribe":
			if cmd.Topic == "" {
				continue
			}
			// a connection only ever hears its own user topic and the
			// conversations it takes part in
			if c.authorizer == nil || !c.authorizer.CanSubscribe(context.Background(), c.UserID, cmd.Topic) {
				c.logger.Warn("subscription denied",
					zap.String("user_id", c.UserID),
					zap.String("topic", cmd.Topic))
				continue
			}
			c.hub.subscribe <- subscription{client: c, topic: cmd.Topic}
		case "unsubscribe":
			if cmd.Topic != "" {
				c.hub.unsubscribe <- subscription{client: c, topic: cmd.Topic}
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
