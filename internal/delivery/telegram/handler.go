package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// Options tunes the handler.
type Options struct {
	MaxFileBytes   int64
	LockAnswers    bool
	PollingTimeout int
}

type Handler struct {
	bot    BotAPI
	logger *zap.Logger
	study  StudyService
	files  FileFetcher
	opts   Options

	wg sync.WaitGroup
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	study StudyService,
	files FileFetcher,
	opts Options,
) *Handler {
	if opts.PollingTimeout <= 0 {
		opts.PollingTimeout = 60
	}
	return &Handler{
		bot:    bot,
		logger: logger,
		study:  study,
		files:  files,
		opts:   opts,
	}
}

// Run polls updates until ctx is done, then waits for running generations to settle.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.opts.PollingTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if update.Message.Document != nil {
		_ = h.withErrorHandling(h.handleDocument(update.Message.Document))(ctx, chatID)
		return
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, chatID, update.Message.Command())
		return
	}

	h.send(newHTMLMessage(chatID, msgSendDocument))
}

// startGeneration takes the in-flight slot and runs the request in the background.
// The panel shows the loading view at once and the result when the request settles.
func (h *Handler) startGeneration(ctx context.Context, chatID int64) error {
	st, sub, err := h.study.Begin(ctx, chatID)
	if err != nil {
		return err
	}

	if err := h.showPanel(ctx, chatID, st); err != nil {
		h.logger.Warn("failed to show loading panel", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		st, err := h.study.Run(ctx, chatID, sub)
		if err != nil {
			h.logger.Error("generation did not settle",
				zap.Int64("chat_id", chatID),
				zap.String("request_id", sub.Ticket.RequestID),
				zap.Error(err),
			)
			return
		}

		if err := h.showPanel(context.WithoutCancel(ctx), chatID, st); err != nil {
			h.logger.Warn("failed to show result panel", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}()

	return nil
}

// showPanel edits the chat's panel in place, or sends a new one when there is none yet.
func (h *Handler) showPanel(ctx context.Context, chatID int64, st workspace.State) error {
	p := renderPanel(st, h.opts.LockAnswers)

	if st.PanelMessageID != 0 {
		edit := newHTMLEdit(chatID, st.PanelMessageID, p.Text)
		edit.ReplyMarkup = p.Keyboard
		_, err := h.bot.Send(edit)
		if err == nil || isNotModified(err) {
			return nil
		}
		h.logger.Debug("panel edit failed, sending a new one",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	return h.sendPanel(ctx, chatID, st)
}

// sendPanel posts a fresh panel below the conversation and makes it the current one.
func (h *Handler) sendPanel(ctx context.Context, chatID int64, st workspace.State) error {
	p := renderPanel(st, h.opts.LockAnswers)

	msg := newHTMLMessage(chatID, p.Text)
	if p.Keyboard != nil {
		msg.ReplyMarkup = *p.Keyboard
	}

	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}

	_, err = h.study.AttachPanel(ctx, chatID, sent.MessageID)
	return err
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

// isNotModified reports the API error returned when an edit changes nothing.
func isNotModified(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strings.Contains(tgErr.Message, "message is not modified")
	}
	return strings.Contains(err.Error(), "message is not modified")
}
