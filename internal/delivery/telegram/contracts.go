package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ BotAPI = (*tgbotapi.BotAPI)(nil)

type StudyService interface {
	Workspace(ctx context.Context, chatID int64) (workspace.State, error)
	SelectFile(ctx context.Context, chatID int64, doc *entities.Document) (workspace.State, error)
	Begin(ctx context.Context, chatID int64) (workspace.State, service.Submission, error)
	Run(ctx context.Context, chatID int64, sub service.Submission) (workspace.State, error)
	Cancel(ctx context.Context, chatID int64) (workspace.State, error)
	SelectAnswer(ctx context.Context, chatID int64, item int, label entities.Label) (workspace.State, error)
	SwitchTab(ctx context.Context, chatID int64, tab workspace.Tab) (workspace.State, error)
	ShowItem(ctx context.Context, chatID int64, tab workspace.Tab, index int) (workspace.State, error)
	AttachPanel(ctx context.Context, chatID int64, messageID int) (workspace.State, error)
	Reset(ctx context.Context, chatID int64) error
}

var _ StudyService = (*service.StudyService)(nil)

// FileFetcher downloads an uploaded document so the file card can show its page count.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}
