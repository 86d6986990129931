package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

// Session is one interview: the context supplied at start and the transcript since.
// Transcript holds only user and assistant messages, in chronological order.
type Session struct {
	ID         uuid.UUID     `json:"id"`
	Context    string        `json:"context"`
	Transcript []llm.Message `json:"transcript"`
	Started    bool          `json:"started"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

var (
	ErrNotFound     = errors.New("interview session not found")
	ErrNotStarted   = errors.New("interview has not started")
	ErrTurnInFlight = errors.New("a turn is already in progress for this interview")
)

// ErrValidation is returned for rejected user input; no network call is made.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

// Repository persists sessions. Transcripts are append-only.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	AppendMessages(ctx context.Context, id uuid.UUID, msgs ...llm.Message) error
}
