package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-interviewer/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, health *handlers.HealthHandler, settings *handlers.SettingsHandler, interviews *handlers.InterviewHandler, chat *handlers.ChatHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	v1.Get("/settings", settings.Get)
	v1.Put("/settings", settings.Update)

	ig := v1.Group("/interviews")
	ig.Post("/", interviews.Start)
	ig.Post("/resume", interviews.StartFromResume)
	ig.Get("/:id", interviews.Get)
	ig.Post("/:id/messages", interviews.Send)

	// Stateless turn over a client-held transcript
	v1.Post("/chat", chat.Chat)
}
