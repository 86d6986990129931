package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/session"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

const (
	MsgUnconfigured = "Please configure your API key and model in settings to start the interview."
	MsgStartFailed  = "Failed to start the interview. Please check your settings and try again."
	MsgTurnFailed   = "Failed to get response. Please try again."
	MsgInternal     = "internal error"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Fail writes the response for an error coming out of the use cases. upstream is the
// message shown when the provider call itself failed.
func Fail(c *fiber.Ctx, err error, upstream string) error {
	status, message := Classify(err, upstream)
	resp := ErrorResponse{Message: message}
	if status == http.StatusBadGateway || status == http.StatusPreconditionFailed {
		resp.Kind = llm.Kind(err)
	}
	return JSON(c, status, resp)
}

// Classify maps an error to an HTTP status and a client-facing message. Provider details
// never leave the service; they are logged by the use case instead.
func Classify(err error, upstream string) (int, string) {
	var (
		sessionInvalid  session.ErrValidation
		settingsInvalid settings.ErrValidation
		transportErr    *llm.TransportError
		malformedErr    *llm.MalformedResponseError
	)
	switch {
	case errors.As(err, &sessionInvalid), errors.As(err, &settingsInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, llm.ErrInvalidMessages):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, llm.ErrUnconfigured):
		return http.StatusPreconditionFailed, MsgUnconfigured
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrTurnInFlight), errors.Is(err, session.ErrNotStarted):
		return http.StatusConflict, err.Error()
	case errors.As(err, &transportErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway, upstream
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
