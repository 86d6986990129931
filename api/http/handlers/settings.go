package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-interviewer/api/http/presenter"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

type SettingsHandler struct{ svc settings.UseCase }

func NewSettingsHandler(svc settings.UseCase) *SettingsHandler { return &SettingsHandler{svc: svc} }

// SettingsView is what clients see; the API key is masked.
type SettingsView struct {
	APIKey     string `json:"apiKey"`
	ModelName  string `json:"modelName"`
	Configured bool   `json:"configured"`
}

type UpdateSettingsRequest struct {
	APIKey    string `json:"apiKey"`
	ModelName string `json:"modelName"`
}

func view(s settings.Settings) SettingsView {
	return SettingsView{APIKey: settings.Masked(s.APIKey), ModelName: s.ModelName, Configured: s.Configured()}
}

// Get returns the current provider settings.
// @Summary Provider settings
// @Tags    settings
// @Produce json
// @Success 200 {object} handlers.SettingsView
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.svc.Get(c.UserContext())
	if err != nil {
		return presenter.Fail(c, err, presenter.MsgInternal)
	}
	return presenter.JSON(c, http.StatusOK, view(s))
}

// Update replaces the API key and model name. Both are required.
// @Summary Update provider settings
// @Tags    settings
// @Accept  json
// @Produce json
// @Param   body body handlers.UpdateSettingsRequest true "OpenRouter API key and model name"
// @Success 200 {object} handlers.SettingsView
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	s, err := h.svc.Update(c.UserContext(), settings.Settings{APIKey: req.APIKey, ModelName: req.ModelName})
	if err != nil {
		return presenter.Fail(c, err, presenter.MsgInternal)
	}
	return presenter.JSON(c, http.StatusOK, view(s))
}
