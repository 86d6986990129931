package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-interviewer/pkg/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct{ svc health.ReadinessUseCase }

func NewHealthHandler(svc health.ReadinessUseCase) *HealthHandler { return &HealthHandler{svc: svc} }

// ReadinessResponse names each checked storage backend with "ok" or its failure.
type ReadinessResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}

// Health reports that the process is up; it touches no backend.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Ready pings the session and settings backends chosen at startup. In-memory stores have
// nothing to ping and report an empty backend list.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} handlers.ReadinessResponse
// @Failure 503 {object} handlers.ReadinessResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	rep, err := h.svc.Ready(ctx)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ReadinessResponse{Status: "not_ready", Backends: rep.Backends})
	}
	return c.Status(fiber.StatusOK).JSON(ReadinessResponse{Status: "ready", Backends: rep.Backends})
}
