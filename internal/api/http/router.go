package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillmatch/skillmatch/internal/api/http/handlers"
	"github.com/skillmatch/skillmatch/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Queries        *handlers.QueriesHandler
	Requests       *handlers.RequestsHandler
	Connections    *handlers.ConnectionsHandler
	Chat           *handlers.ChatHandler
	Notifications  *handlers.NotificationsHandler
	Websocket      *handlers.WebsocketHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/resend-otp", cfg.Auth.ResendOTP)
	authGroup.Post("/login", cfg.Auth.Login)

	// unread polling degrades gracefully for anonymous callers
	app.Get("/notifications/unread", cfg.AuthMiddleware.Optional, cfg.Notifications.UnreadState)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Get("/search", cfg.Users.Search)
	users.Get("/:id", cfg.Users.Get)

	queries := app.Group("/queries", cfg.AuthMiddleware.Handle)
	queries.Post("", cfg.Queries.Create)
	queries.Get("", cfg.Queries.List)
	queries.Get("/:id", cfg.Queries.Get)
	queries.Post("/:id/answers", cfg.Queries.AddAnswer)
	queries.Post("/:id/answers/:answerID/like", cfg.Queries.ToggleAnswerLike)
	queries.Post("/:id/close", cfg.Queries.Close)

	requests := app.Group("/requests", cfg.AuthMiddleware.Handle)
	requests.Post("", cfg.Requests.Create)
	requests.Get("", cfg.Requests.List)
	requests.Get("/:id", cfg.Requests.Get)
	requests.Post("/:id/interest", cfg.Requests.ExpressInterest)
	requests.Post("/:id/close", cfg.Requests.Close)

	connections := app.Group("/connections", cfg.AuthMiddleware.Handle)
	connections.Post("", cfg.Connections.Create)
	connections.Get("", cfg.Connections.List)
	connections.Post("/:id/accept", cfg.Connections.Accept)
	connections.Post("/:id/decline", cfg.Connections.Decline)

	conversations := app.Group("/conversations", cfg.AuthMiddleware.Handle)
	conversations.Get("", cfg.Chat.ListConversations)
	conversations.Get("/:id/messages", cfg.Chat.ListMessages)
	conversations.Post("/:id/messages", cfg.Chat.SendMessage)
	conversations.Delete("/:id/messages/:messageID", cfg.Chat.DeleteMessage)
	conversations.Post("/:id/read", cfg.Chat.MarkRead)

	app.Get("/ws", cfg.AuthMiddleware.Handle, cfg.Websocket.Upgrade, cfg.Websocket.Serve())
}
