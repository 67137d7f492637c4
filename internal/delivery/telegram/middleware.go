package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns expected domain errors into a reply and logs the rest.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userMessage(err, h.opts.MaxFileBytes); ok {
			h.sendText(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendText(chatID, msgInternalError)
		return nil
	}
}

// userMessage maps an error the user can act on to its reply.
func userMessage(err error, maxBytes int64) (string, bool) {
	switch {
	case errors.Is(err, workspace.ErrNoDocument):
		return msgNoDocument, true
	case errors.Is(err, workspace.ErrSubmissionInFlight):
		return msgAlreadyRunning, true
	case errors.Is(err, service.ErrNothingToCancel):
		return msgNothingToCancel, true
	case errors.Is(err, workspace.ErrNoQuestions):
		return msgNoResults, true
	case errors.Is(err, workspace.ErrAnswerLocked):
		return msgAnswerLocked, true
	case errors.Is(err, errFileTooLarge):
		return fmt.Sprintf(msgFileTooLarge, formatSize(maxBytes)), true
	default:
		return "", false
	}
}
