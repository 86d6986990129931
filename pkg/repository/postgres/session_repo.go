package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/session"
)

// SessionRepository stores interview sessions and their transcripts.
// Schema is managed by storage/postgres migrations.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s session.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO interview_sessions (id, context, started, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
`, s.ID, s.Context, s.Started, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return err
	}
	if err := insertMessages(ctx, tx, s.ID, 0, s.UpdatedAt, s.Transcript); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (session.Session, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, context, started, created_at, updated_at
FROM interview_sessions WHERE id = $1
`, id)
	var s session.Session
	var created, updated time.Time
	if err := row.Scan(&s.ID, &s.Context, &s.Started, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	s.CreatedAt = created.UTC()
	s.UpdatedAt = updated.UTC()

	rows, err := r.pool.Query(ctx, `
SELECT role, content FROM interview_messages
WHERE session_id = $1
ORDER BY seq ASC
`, id)
	if err != nil {
		return session.Session{}, err
	}
	defer rows.Close()
	s.Transcript = []llm.Message{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return session.Session{}, err
		}
		s.Transcript = append(s.Transcript, llm.Message{Role: llm.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (r *SessionRepository) AppendMessages(ctx context.Context, id uuid.UUID, msgs ...llm.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row lock serializes appends to the same session across instances.
	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
UPDATE interview_sessions SET updated_at = $2 WHERE id = $1
`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	var next int
	if err := tx.QueryRow(ctx, `
SELECT COALESCE(MAX(seq) + 1, 0) FROM interview_messages WHERE session_id = $1
`, id).Scan(&next); err != nil {
		return err
	}
	if err := insertMessages(ctx, tx, id, next, now, msgs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertMessages(ctx context.Context, tx pgx.Tx, id uuid.UUID, start int, at time.Time, msgs []llm.Message) error {
	for i, m := range msgs {
		_, err := tx.Exec(ctx, `
INSERT INTO interview_messages (session_id, seq, role, content, created_at)
VALUES ($1, $2, $3, $4, $5)
`, id, start+i, string(m.Role), m.Content, at)
		if err != nil {
			return err
		}
	}
	return nil
}
