package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/document"
	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	infratg "github.com/aliskhannn/study-material-bot/internal/infra/telegram"
)

var errFileTooLarge = errors.New("document exceeds size limit")

var tabCommands = map[string]workspace.Tab{
	"quiz":  workspace.TabQuiz,
	"short": workspace.TabShort,
	"long":  workspace.TabLong,
}

// Commands is the command menu registered with BotFather on startup.
func Commands() tgbotapi.SetMyCommandsConfig {
	return tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "How it works"},
		tgbotapi.BotCommand{Command: "generate", Description: "Generate study material"},
		tgbotapi.BotCommand{Command: "quiz", Description: "Quiz tab"},
		tgbotapi.BotCommand{Command: "short", Description: "Short answers tab"},
		tgbotapi.BotCommand{Command: "long", Description: "Long answers tab"},
		tgbotapi.BotCommand{Command: "score", Description: "Quiz score"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Abort generation"},
		tgbotapi.BotCommand{Command: "reset", Description: "Start over"},
	)
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, command string) {
	var fn HandlerFunc

	switch command {
	case "start", "help":
		fn = h.handleStart()
	case "generate":
		fn = h.startGeneration
	case "quiz", "short", "long":
		fn = h.handleTab(tabCommands[command])
	case "score":
		fn = h.handleScore()
	case "cancel":
		fn = h.handleCancel()
	case "reset":
		fn = h.handleReset()
	default:
		h.sendText(chatID, msgUnknownCommand)
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// handleStart greets the user and brings the panel back to the bottom of the chat.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.sendText(chatID, msgWelcome)

		st, err := h.study.Workspace(ctx, chatID)
		if err != nil {
			return err
		}
		return h.sendPanel(ctx, chatID, st)
	}
}

func (h *Handler) handleTab(tab workspace.Tab) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.study.Workspace(ctx, chatID)
		if err != nil {
			return err
		}
		if !st.HasResults() {
			return workspace.ErrNoQuestions
		}

		st, err = h.study.SwitchTab(ctx, chatID, tab)
		if err != nil {
			return err
		}
		return h.sendPanel(ctx, chatID, st)
	}
}

func (h *Handler) handleScore() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.study.Workspace(ctx, chatID)
		if err != nil {
			return err
		}
		if !st.HasResults() {
			return workspace.ErrNoQuestions
		}

		text := fmt.Sprintf("%s\nAnswered: %d/%d",
			renderScore(st),
			entities.Answered(st.Questions),
			st.Total(),
		)
		h.sendText(chatID, text)
		return nil
	}
}

func (h *Handler) handleCancel() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.study.Cancel(ctx, chatID)
		if err != nil {
			return err
		}
		return h.showPanel(ctx, chatID, st)
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.study.Reset(ctx, chatID); err != nil {
			return err
		}
		h.sendText(chatID, msgReset)
		return nil
	}
}

// handleDocument makes an uploaded file the selected document and posts a fresh panel.
// Page counting is best effort: a file that cannot be read is still accepted.
func (h *Handler) handleDocument(tgDoc *tgbotapi.Document) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		size := int64(tgDoc.FileSize)
		if h.opts.MaxFileBytes > 0 && size > h.opts.MaxFileBytes {
			return errFileTooLarge
		}

		name := tgDoc.FileName
		if name == "" {
			name = "document"
		}
		doc := entities.NewDocument(tgDoc.FileID, name, tgDoc.MimeType, size)

		if data, err := h.files.Fetch(ctx, tgDoc.FileID); err != nil {
			if errors.Is(err, infratg.ErrFileTooLarge) {
				return errFileTooLarge
			}
			h.logger.Warn("failed to download document for inspection",
				zap.Int64("chat_id", chatID),
				zap.String("file_id", tgDoc.FileID),
				zap.Error(err),
			)
		} else {
			info, err := document.Inspect(data)
			if err != nil {
				h.logger.Debug("failed to read pdf", zap.String("file_name", name), zap.Error(err))
			}
			doc.Pages = info.Pages
			if doc.Size == 0 {
				doc.Size = int64(len(data))
			}
		}

		st, err := h.study.SelectFile(ctx, chatID, doc)
		if err != nil {
			return err
		}

		h.logger.Info("document selected",
			zap.Int64("chat_id", chatID),
			zap.String("file_name", doc.FileName),
			zap.Int64("size", doc.Size),
			zap.Int("pages", doc.Pages),
		)

		return h.sendPanel(ctx, chatID, st)
	}
}
