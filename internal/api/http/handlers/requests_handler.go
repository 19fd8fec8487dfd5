package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/api/dto"
	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/repository"
	"github.com/skillmatch/skillmatch/internal/service"
)

// RequestsHandler exposes collaboration postings.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requests *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requests}
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.CreateCollabRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	tags := make([]domain.RequestTag, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tags = append(tags, domain.RequestTag(strings.ToUpper(tag)))
	}

	request, err := h.requests.CreateRequest(c.Context(), user.ID, service.RequestCreateInput{
		Description: req.Description,
		Skills:      req.Skills,
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCollabRequestResponse(request)})
}

// List handles GET /requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	filter := repository.RequestFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.RequestStatus{domain.RequestStatus(strings.ToUpper(status))}
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			filter.Tags = append(filter.Tags, domain.RequestTag(strings.ToUpper(tag)))
		}
	}

	requests, err := h.requests.ListRequests(c.Context(), filter)
	if err != nil {
		return err
	}

	results := make([]dto.CollabRequestResponse, 0, len(requests))
	for i := range requests {
		results = append(results, dto.NewCollabRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": results})
}

// Get handles GET /requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	request, err := h.requests.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCollabRequestResponse(request)})
}

// ExpressInterest handles POST /requests/:id/interest.
func (h *RequestsHandler) ExpressInterest(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	request, added, err := h.requests.ExpressInterest(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"request": dto.NewCollabRequestResponse(request),
			"added":   added,
		},
	})
}

// Close handles POST /requests/:id/close.
func (h *RequestsHandler) Close(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	request, err := h.requests.CloseRequest(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCollabRequestResponse(request)})
}
