package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/artem13815/hr-interviewer/pkg/interview"
	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

// Turn is the result of one Send: the stored user message and the interviewer's reply.
type Turn struct {
	UserMessage llm.Message `json:"userMessage"`
	Reply       llm.Message `json:"reply"`
}

// UseCase drives interviews on behalf of a client. Settings are read on every turn so
// changes apply to the next call without restarting an interview.
type UseCase interface {
	Start(ctx context.Context, interviewContext string) (Session, error)
	Send(ctx context.Context, id uuid.UUID, text string) (Turn, error)
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	// Reply runs one stateless turn for callers that keep the transcript themselves.
	Reply(ctx context.Context, interviewContext string, history []llm.Message, override settings.Settings) (llm.Message, error)
}

type service struct {
	repo     Repository
	settings settings.UseCase
	turns    interview.TurnTaker
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewService(repo Repository, st settings.UseCase, turns interview.TurnTaker, log zerolog.Logger) UseCase {
	return &service{
		repo:     repo,
		settings: st,
		turns:    turns,
		log:      log,
		now:      time.Now,
		inflight: make(map[uuid.UUID]struct{}),
	}
}

func (s *service) Start(ctx context.Context, interviewContext string) (Session, error) {
	if strings.TrimSpace(interviewContext) == "" {
		return Session{}, ErrValidation("Please provide some context for the interview.")
	}
	creds, err := s.settings.Get(ctx)
	if err != nil {
		return Session{}, err
	}

	log := s.logger(ctx)
	log.Info().Int("context_chars", len(interviewContext)).Str("model", creds.ModelName).Msg("starting interview")

	first, err := s.turns.AdvanceTurn(ctx, interviewContext, nil, creds.APIKey, creds.ModelName)
	if err != nil {
		s.logTurnFailure(log, err)
		return Session{}, err
	}

	now := s.now().UTC()
	sess := Session{
		ID:         uuid.New(),
		Context:    interviewContext,
		Transcript: []llm.Message{first},
		Started:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		log.Error().Err(err).Msg("failed to save interview")
		return Session{}, err
	}
	log.Info().Str("session_id", sess.ID.String()).Msg("interview started")
	return sess, nil
}

func (s *service) Send(ctx context.Context, id uuid.UUID, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrValidation("message must not be empty")
	}
	if !s.acquire(id) {
		return Turn{}, ErrTurnInFlight
	}
	defer s.release(id)

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	if !sess.Started {
		return Turn{}, ErrNotStarted
	}

	log := s.logger(ctx).With().Str("session_id", id.String()).Int("turn", len(sess.Transcript)).Logger()

	user := llm.UserMessage(text)
	if err := s.repo.AppendMessages(ctx, id, user); err != nil {
		log.Error().Err(err).Msg("failed to append user message")
		return Turn{}, err
	}
	history := make([]llm.Message, 0, len(sess.Transcript)+1)
	history = append(history, sess.Transcript...)
	history = append(history, user)

	creds, err := s.settings.Get(ctx)
	if err != nil {
		return Turn{}, err
	}
	reply, err := s.turns.AdvanceTurn(ctx, sess.Context, history, creds.APIKey, creds.ModelName)
	if err != nil {
		s.logTurnFailure(log, err)
		return Turn{}, err
	}
	if err := s.repo.AppendMessages(ctx, id, reply); err != nil {
		log.Error().Err(err).Msg("failed to append interviewer reply")
		return Turn{}, err
	}
	log.Debug().Msg("turn completed")
	return Turn{UserMessage: user, Reply: reply}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Reply(ctx context.Context, interviewContext string, history []llm.Message, override settings.Settings) (llm.Message, error) {
	if strings.TrimSpace(interviewContext) == "" {
		return llm.Message{}, ErrValidation("context is required")
	}
	for _, m := range history {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return llm.Message{}, ErrValidation("history roles must be user or assistant")
		}
	}
	creds, err := s.settings.Resolve(ctx, override)
	if err != nil {
		return llm.Message{}, err
	}
	reply, err := s.turns.AdvanceTurn(ctx, interviewContext, history, creds.APIKey, creds.ModelName)
	if err != nil {
		s.logTurnFailure(s.logger(ctx), err)
		return llm.Message{}, err
	}
	return reply, nil
}

func (s *service) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *service) release(id uuid.UUID) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *service) logger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return s.log
}

func (s *service) logTurnFailure(log zerolog.Logger, err error) {
	ev := log.Error()
	if errors.Is(err, llm.ErrUnconfigured) {
		ev = log.Warn()
	}
	ev = ev.Err(err).Str("error_kind", llm.Kind(err))

	var te *llm.TransportError
	var me *llm.MalformedResponseError
	switch {
	case errors.As(err, &me):
		ev.Str("body", me.Body).Msg("provider returned malformed response")
	case errors.As(err, &te):
		ev.Int("status", te.Status).Msg("provider request failed")
	default:
		ev.Msg("interview turn failed")
	}
}
