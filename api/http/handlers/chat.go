package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-interviewer/api/http/presenter"
	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/session"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

// ChatHandler serves stateless turns: the caller sends the whole history every time.
type ChatHandler struct{ svc session.UseCase }

func NewChatHandler(svc session.UseCase) *ChatHandler { return &ChatHandler{svc: svc} }

type ChatRequest struct {
	Context          string        `json:"context"`
	History          []llm.Message `json:"history"`
	OpenRouterAPIKey string        `json:"openRouterApiKey,omitempty"`
	ModelName        string        `json:"modelName,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// Chat runs one interviewer turn over a client-held transcript. An empty history asks for
// the opening question. Credentials in the body take precedence over stored settings.
// @Summary Stateless interviewer turn
// @Tags    chat
// @Accept  json
// @Produce json
// @Param   body body handlers.ChatRequest true "Context, transcript so far and optional credentials"
// @Success 200 {object} handlers.ChatResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 412 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	override := settings.Settings{APIKey: req.OpenRouterAPIKey, ModelName: req.ModelName}
	reply, err := h.svc.Reply(c.UserContext(), req.Context, req.History, override)
	if err != nil {
		upstream := presenter.MsgTurnFailed
		if len(req.History) == 0 {
			upstream = presenter.MsgStartFailed
		}
		return presenter.Fail(c, err, upstream)
	}
	return presenter.JSON(c, http.StatusOK, ChatResponse{Response: reply.Content})
}
