// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// User-facing texts.
const (
	msgWelcome = "<b>📚 Study Material Generator</b>\n\n" +
		"Transform your PDFs into interactive study materials.\n\n" +
		"Send me a PDF document, then press <b>Generate</b>. " +
		"You will get a quiz, short answers and long answers.\n\n" +
		"Commands:\n" +
		"/generate - generate material for the last document\n" +
		"/quiz, /short, /long - switch tabs\n" +
		"/score - show the quiz score\n" +
		"/cancel - abort a running generation\n" +
		"/reset - forget the document and results"

	msgNoDocument      = "Send me a PDF first."
	msgAlreadyRunning  = "Generation is already in progress."
	msgNothingToCancel = "Nothing is being generated right now."
	msgNoResults       = "No study material yet. Send a PDF and press Generate."
	msgReset           = "Done. Send a new PDF whenever you are ready."
	msgFileTooLarge    = "This file is too large. The limit is %s."
	msgNotPDFHint      = "⚠️ This does not look like a PDF, but you can still try."
	msgAnswerLocked    = "You have already answered this question."
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Use /help to see what I can do."
	msgSendDocument    = "Send me a PDF document to get started."
	msgGenerating      = "⏳ Generating study material..."
	msgEmptyTab        = "Nothing here."
	msgNoQuizQuestions = "No quiz questions were generated."
	msgCorrect         = "✅ Correct"
	msgIncorrect       = "❌ Incorrect"
	msgReadyToGenerate = "Ready to generate study materials"
	msgAnswerLabel     = "Answer"
)

// maxAnswerRunes keeps a panel under the 4096 character message limit.
const maxAnswerRunes = 3000

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newHTMLEdit creates an edit with HTML parse mode.
func newHTMLEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}

func bold(s string) string {
	return "<b>" + esc(s) + "</b>"
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatSize renders a byte count the way file pickers do.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
