package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var (
		st    workspace.State
		toast string
		err   error
	)

	switch data.Action {
	case actionGenerate:
		err = h.startGeneration(ctx, chatID)
		h.answerCallback(cb.ID, callbackToast(err, h.opts.MaxFileBytes))
		if err != nil {
			h.logUnexpected(chatID, cb.Data, err)
		}
		return

	case actionCancel:
		st, err = h.study.Cancel(ctx, chatID)

	case actionTab:
		var tab workspace.Tab
		if tab, err = data.tab(); err == nil {
			st, err = h.study.SwitchTab(ctx, chatID, tab)
		}

	case actionPage:
		var (
			tab workspace.Tab
			idx int
		)
		if tab, idx, err = data.page(); err == nil {
			st, err = h.study.ShowItem(ctx, chatID, tab, idx)
		}

	case actionAnswer:
		item, label, perr := data.answer()
		if perr != nil {
			err = perr
			break
		}
		st, err = h.study.SelectAnswer(ctx, chatID, item, label)
		if err == nil {
			toast = msgIncorrect
			if st.Questions.Quiz[item].IsCorrect() {
				toast = msgCorrect
			}
		}

	case actionNoop:
		h.answerCallback(cb.ID, "")
		return

	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	if err != nil {
		h.answerCallback(cb.ID, callbackToast(err, h.opts.MaxFileBytes))
		h.logUnexpected(chatID, cb.Data, err)
		return
	}

	if err := h.showPanel(ctx, chatID, st); err != nil {
		h.logger.Error("failed to update panel", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, toast)
}

// callbackToast is the popup text for a failed callback.
func callbackToast(err error, maxBytes int64) string {
	if err == nil {
		return ""
	}
	if text, ok := userMessage(err, maxBytes); ok {
		return text
	}
	return msgInternalError
}

func (h *Handler) logUnexpected(chatID int64, data string, err error) {
	if _, ok := userMessage(err, h.opts.MaxFileBytes); ok {
		return
	}
	h.logger.Error("callback error",
		zap.Int64("chat_id", chatID),
		zap.String("data", data),
		zap.Error(err),
	)
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
