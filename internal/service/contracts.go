package service

import (
	"context"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/generator"
)

// WorkspaceStore persists one workspace per chat. Update must apply fn atomically.
type WorkspaceStore interface {
	Load(ctx context.Context, chatID int64) (workspace.State, error)
	Update(ctx context.Context, chatID int64, fn func(workspace.State) (workspace.State, error)) (workspace.State, error)
	Delete(ctx context.Context, chatID int64) error
}

// Generator turns an uploaded document into study material.
type Generator interface {
	Generate(ctx context.Context, up generator.Upload) (*entities.QuestionSet, error)
}

// FileFetcher downloads the bytes of a previously uploaded file.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}
