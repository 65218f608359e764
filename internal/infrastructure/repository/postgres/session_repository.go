package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) EnsureSession(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, stage, created_at, updated_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (id) DO NOTHING
`, sessionID, string(domain.StageGreeting), now)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

func (r *SessionRepository) UpdateStage(ctx context.Context, sessionID string, stage domain.Stage) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions SET stage = $2, updated_at = $3 WHERE id = $1
`, sessionID, string(stage), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stage rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "postgres.UpdateStage",
			fmt.Errorf("session %s not found", sessionID))
	}
	return nil
}

func (r *SessionRepository) AppendMessage(ctx context.Context, message domain.ChatMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO session_messages (id, session_id, sender, agent, body, turn, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, message.ID, message.SessionID, message.Sender, nullableString(message.Agent), message.Body, message.Turn, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, sender, COALESCE(agent, ''), body, turn, created_at
FROM session_messages
WHERE session_id = $1
ORDER BY turn ASC, created_at ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Sender,
			&msg.Agent,
			&msg.Body,
			&msg.Turn,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
