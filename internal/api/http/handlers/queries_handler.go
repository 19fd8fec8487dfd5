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

// QueriesHandler exposes the question board.
type QueriesHandler struct {
	queries *service.QueryService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queries *service.QueryService) *QueriesHandler {
	return &QueriesHandler{queries: queries}
}

// Create handles POST /queries.
func (h *QueriesHandler) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.CreateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	query, err := h.queries.CreateQuery(c.Context(), user.ID, service.QueryCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewQuerySummary(query)})
}

// List handles GET /queries.
func (h *QueriesHandler) List(c *fiber.Ctx) error {
	filter := repository.QueryFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.QueryStatus{domain.QueryStatus(strings.ToUpper(status))}
	}
	if creator := c.Query("creator"); creator != "" {
		filter.CreatorID = &creator
	}
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}

	queries, err := h.queries.ListQueries(c.Context(), filter)
	if err != nil {
		return err
	}

	results := make([]dto.QuerySummary, 0, len(queries))
	for i := range queries {
		results = append(results, dto.NewQuerySummary(&queries[i]))
	}
	return c.JSON(fiber.Map{"data": results})
}

// Get handles GET /queries/:id.
func (h *QueriesHandler) Get(c *fiber.Ctx) error {
	query, answers, err := h.queries.GetQuery(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	detail := dto.QueryDetailResponse{
		QuerySummary: dto.NewQuerySummary(query),
		Answers:      make([]dto.AnswerResponse, 0, len(answers)),
	}
	for i := range answers {
		detail.Answers = append(detail.Answers, dto.NewAnswerResponse(&answers[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// AddAnswer handles POST /queries/:id/answers.
func (h *QueriesHandler) AddAnswer(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.CreateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	answer, err := h.queries.AddAnswer(c.Context(), user.ID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAnswerResponse(answer)})
}

// ToggleAnswerLike handles POST /queries/:id/answers/:answerID/like.
func (h *QueriesHandler) ToggleAnswerLike(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	answer, err := h.queries.ToggleAnswerLike(c.Context(), user.ID, c.Params("id"), c.Params("answerID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnswerResponse(answer)})
}

// Close handles POST /queries/:id/close.
func (h *QueriesHandler) Close(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	query, err := h.queries.CloseQuery(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewQuerySummary(query)})
}
