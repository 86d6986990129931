package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/session"
)

// SessionRepository is an in-memory session.Repository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*session.Session),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Transcript = slices.Clone(s.Transcript)
	r.sessions[s.ID] = &s
	return nil
}

// Get returns a copy; later appends do not affect it.
func (r *SessionRepository) Get(_ context.Context, id uuid.UUID) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	out := *s
	out.Transcript = slices.Clone(s.Transcript)
	return out, nil
}

func (r *SessionRepository) AppendMessages(_ context.Context, id uuid.UUID, msgs ...llm.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	s.Transcript = append(s.Transcript, msgs...)
	s.UpdatedAt = r.now().UTC()
	return nil
}
