package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnconfigured is returned before any network call when the credential or model is missing.
	ErrUnconfigured = errors.New("llm credential or model is not configured")
	// ErrInvalidMessages is returned when the outbound list does not start with exactly one system message.
	ErrInvalidMessages = errors.New("messages must start with exactly one system message")
)

// TransportError reports a non-2xx provider status or a failed round trip (Status == 0).
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("chat transport: %v", e.Err)
	}
	return fmt.Sprintf("chat transport: http %d: %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transient reports whether repeating the same request may succeed.
func (e *TransportError) Transient() bool {
	return e.Status == 0 || e.Status >= 500
}

// MalformedResponseError is returned when a 2xx body does not have the chat-completion shape.
type MalformedResponseError struct {
	Reason string
	Body   string
}

func (e *MalformedResponseError) Error() string {
	return "chat transport: malformed response: " + e.Reason
}

// Kind names the failure class of err for structured logs.
func Kind(err error) string {
	var te *TransportError
	var me *MalformedResponseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnconfigured):
		return "unconfigured"
	case errors.Is(err, ErrInvalidMessages):
		return "invalid_messages"
	case errors.As(err, &me):
		return "malformed_response"
	case errors.As(err, &te):
		return "transport"
	default:
		return "unknown"
	}
}

// ValidateMessages checks the outbound message list preconditions.
func ValidateMessages(messages []Message) error {
	if len(messages) == 0 || messages[0].Role != RoleSystem {
		return ErrInvalidMessages
	}
	for _, m := range messages[1:] {
		if m.Role == RoleSystem {
			return ErrInvalidMessages
		}
	}
	return nil
}
