package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/api/dto"
	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/service"
)

// UsersHandler exposes profile and search endpoints.
type UsersHandler struct {
	profiles *service.ProfileService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(profiles *service.ProfileService) *UsersHandler {
	return &UsersHandler{profiles: profiles}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	return c.JSON(fiber.Map{"data": dto.NewUserAccount(user)})
}

// UpdateMe handles PUT /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.profiles.UpdateProfile(c.Context(), user, service.ProfileUpdateInput{
		Name:     req.Name,
		Bio:      req.Bio,
		Location: req.Location,
		Skills:   req.Skills,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserAccount(updated)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.profiles.GetProfile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}

// Search handles GET /users/search?skills=a,b&q=name.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	caller := auth.UserFromContext(c)

	var skills []string
	if raw := c.Query("skills"); raw != "" {
		skills = strings.Split(raw, ",")
	}

	users, err := h.profiles.Search(c.Context(), caller.ID, service.SearchInput{
		Skills: skills,
		Name:   c.Query("q"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}

	results := make([]dto.UserProfile, 0, len(users))
	for i := range users {
		results = append(results, dto.NewUserProfile(&users[i]))
	}
	return c.JSON(fiber.Map{"data": results})
}
