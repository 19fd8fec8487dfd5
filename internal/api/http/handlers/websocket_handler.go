package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/realtime"
)

// WebsocketHandler upgrades authenticated clients onto the realtime hub.
type WebsocketHandler struct {
	hub        *realtime.Hub
	authorizer realtime.TopicAuthorizer
	logger     *zap.Logger
}

// NewWebsocketHandler constructs handler.
func NewWebsocketHandler(hub *realtime.Hub, authorizer realtime.TopicAuthorizer, logger *zap.Logger) *WebsocketHandler {
	return &WebsocketHandler{hub: hub, authorizer: authorizer, logger: logger}
}

// Upgrade gates the endpoint to actual websocket handshakes.
func (h *WebsocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	user := auth.UserFromContext(c)
	if user == nil {
		return fiber.ErrUnauthorized
	}
	// stash the user id before the fasthttp context is hijacked
	c.Locals("ws_user_id", user.ID)
	return c.Next()
}

// Serve handles GET /ws after upgrade.
func (h *WebsocketHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(string)
		if userID == "" {
			_ = conn.Close()
			return
		}
		client := realtime.NewClient(h.hub, conn, userID, h.authorizer, h.logger)
		client.Serve()
	})
}
