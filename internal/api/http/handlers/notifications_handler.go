package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/service"
)

// NotificationsHandler exposes the unread-state endpoint.
type NotificationsHandler struct {
	unread *service.UnreadService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(unread *service.UnreadService) *NotificationsHandler {
	return &NotificationsHandler{unread: unread}
}

// UnreadState handles GET /notifications/unread. Runs under optional auth:
// anonymous callers get both flags false instead of a 401.
func (h *NotificationsHandler) UnreadState(c *fiber.Ctx) error {
	userID := ""
	if user := auth.UserFromContext(c); user != nil {
		userID = user.ID
	}

	state, err := h.unread.State(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": state})
}
