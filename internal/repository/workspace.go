package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/infra/postgres"
)

const schema = `
	CREATE TABLE IF NOT EXISTS workspaces (
		chat_id    BIGINT PRIMARY KEY,
		state      JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// WorkspaceRepository persists chat workspaces as JSONB documents in PostgreSQL.
type WorkspaceRepository struct {
	db         postgres.DBTX
	transactor *postgres.Transactor
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(db postgres.DBTX, transactor *postgres.Transactor) *WorkspaceRepository {
	return &WorkspaceRepository{db: db, transactor: transactor}
}

// EnsureSchema creates the workspaces table if it does not exist.
func (r *WorkspaceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure workspaces schema: %w", err)
	}
	return nil
}

// Load returns the workspace of a chat, or a fresh one.
func (r *WorkspaceRepository) Load(ctx context.Context, chatID int64) (workspace.State, error) {
	query := "SELECT state FROM workspaces WHERE chat_id = $1"

	var raw []byte
	err := r.db.QueryRow(ctx, query, chatID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workspace.New(), nil
		}
		return workspace.State{}, fmt.Errorf("load workspace: %w", err)
	}

	return decodeState(raw)
}

// Update locks the row of the chat, applies fn and writes the result in one transaction.
func (r *WorkspaceRepository) Update(
	ctx context.Context, chatID int64, fn func(workspace.State) (workspace.State, error),
) (workspace.State, error) {
	var result workspace.State

	err := r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		initial, err := json.Marshal(workspace.New())
		if err != nil {
			return err
		}

		// Make sure a row exists so concurrent first updates serialize on its lock.
		_, err = tx.Exec(ctx, `
			INSERT INTO workspaces (chat_id, state, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (chat_id) DO NOTHING
		`, chatID, initial, time.Now())
		if err != nil {
			return fmt.Errorf("init workspace: %w", err)
		}

		var raw []byte
		err = tx.QueryRow(ctx, "SELECT state FROM workspaces WHERE chat_id = $1 FOR UPDATE", chatID).Scan(&raw)
		if err != nil {
			return fmt.Errorf("lock workspace: %w", err)
		}

		cur, err := decodeState(raw)
		if err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			result = cur
			return err
		}
		next.UpdatedAt = time.Now()

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode workspace: %w", err)
		}

		_, err = tx.Exec(ctx,
			"UPDATE workspaces SET state = $2, updated_at = $3 WHERE chat_id = $1",
			chatID, data, next.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save workspace: %w", err)
		}

		result = next
		return nil
	})

	return result, err
}

// Delete removes the workspace of a chat.
func (r *WorkspaceRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM workspaces WHERE chat_id = $1", chatID); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// DeleteIdle removes workspaces untouched since before the cutoff and not waiting on a request.
func (r *WorkspaceRepository) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM workspaces WHERE updated_at < $1 AND NOT (state ? 'pending')",
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("delete idle workspaces: %w", err)
	}
	return tag.RowsAffected(), nil
}

func decodeState(raw []byte) (workspace.State, error) {
	st := workspace.New()
	if err := json.Unmarshal(raw, &st); err != nil {
		return workspace.State{}, fmt.Errorf("decode workspace: %w", err)
	}
	if st.ActiveTab == "" {
		st.ActiveTab = workspace.TabQuiz
	}
	return st, nil
}
