package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

// NewApp creates the Fiber app with the common middleware chain. bodyLimit must leave
// room for the largest accepted resume upload.
func NewApp(log zerolog.Logger, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hr-interviewer",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	return app
}
