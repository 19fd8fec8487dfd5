package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/api/dto"
	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/service"
)

// ChatHandler exposes conversations and messages.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ListConversations handles GET /conversations.
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	views, err := h.chat.ListConversations(c.Context(), user.ID)
	if err != nil {
		return err
	}

	results := make([]dto.ConversationResponse, 0, len(views))
	for _, view := range views {
		resp := dto.ConversationResponse{
			ID:           view.Conversation.ID,
			Participants: []string{view.Conversation.ParticipantA, view.Conversation.ParticipantB},
			CreatedAt:    view.Conversation.CreatedAt,
			UpdatedAt:    view.Conversation.UpdatedAt,
		}
		if view.LastMessage != nil {
			last := dto.NewMessageResponse(view.LastMessage)
			resp.LastMessage = &last
		}
		results = append(results, resp)
	}
	return c.JSON(fiber.Map{"data": results})
}

// ListMessages handles GET /conversations/:id/messages?before=<RFC3339>&limit=n.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid before timestamp")
		}
		before = parsed
	}

	msgs, err := h.chat.ListMessages(c.Context(), user.ID, c.Params("id"), before, c.QueryInt("limit", 30))
	if err != nil {
		return err
	}

	results := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		results = append(results, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": results})
}

// SendMessage handles POST /conversations/:id/messages.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	msg, err := h.chat.SendMessage(c.Context(), user, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// DeleteMessage handles DELETE /conversations/:id/messages/:messageID.
func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	if err := h.chat.DeleteMessage(c.Context(), user.ID, c.Params("id"), c.Params("messageID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkRead handles POST /conversations/:id/read.
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	if err := h.chat.MarkConversationRead(c.Context(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
