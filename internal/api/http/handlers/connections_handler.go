package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/api/dto"
	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/service"
)

// ConnectionsHandler exposes connection request endpoints.
type ConnectionsHandler struct {
	connections *service.ConnectionService
}

// NewConnectionsHandler constructs handler.
func NewConnectionsHandler(connections *service.ConnectionService) *ConnectionsHandler {
	return &ConnectionsHandler{connections: connections}
}

// Create handles POST /connections.
func (h *ConnectionsHandler) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.CreateConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	conn, err := h.connections.Connect(c.Context(), user, req.ReceiverID,
		domain.ConnectionSource(strings.ToUpper(req.Source)))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewConnectionResponse(conn)})
}

// List handles GET /connections?status=pending.
func (h *ConnectionsHandler) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var statuses []domain.ConnectionStatus
	if status := c.Query("status"); status != "" {
		statuses = []domain.ConnectionStatus{domain.ConnectionStatus(strings.ToUpper(status))}
	}

	conns, err := h.connections.List(c.Context(), user.ID, statuses)
	if err != nil {
		return err
	}

	results := make([]dto.ConnectionResponse, 0, len(conns))
	for i := range conns {
		results = append(results, dto.NewConnectionResponse(&conns[i]))
	}
	return c.JSON(fiber.Map{"data": results})
}

// Accept handles POST /connections/:id/accept.
func (h *ConnectionsHandler) Accept(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	conn, conv, err := h.connections.Accept(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"connection":     dto.NewConnectionResponse(conn),
			"conversationId": conv.ID,
		},
	})
}

// Decline handles POST /connections/:id/decline.
func (h *ConnectionsHandler) Decline(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	conn, err := h.connections.Decline(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConnectionResponse(conn)})
}
