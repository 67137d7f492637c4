package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// buildTabRow builds the tab switcher. Each label carries the tab's item count,
// the quiz label carries the score and its badge instead.
func buildTabRow(st workspace.State) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(workspace.Tabs))
	for _, tab := range workspace.Tabs {
		label := tabLabel(st, tab)
		if tab == st.ActiveTab {
			label = "• " + label + " •"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildTabCallback(tab)))
	}
	return row
}

func tabLabel(st workspace.State, tab workspace.Tab) string {
	title := tabTitles[tab]
	if tab != workspace.TabQuiz {
		return fmt.Sprintf("%s %d", title, st.Len(tab))
	}

	label := fmt.Sprintf("%s %d/%d", title, st.Score(), st.Total())
	if icon, ok := badgeIcons[st.Badge()]; ok {
		label += " " + icon
	}
	return label
}

// buildAnswerRow builds the A-D buttons of a quiz item. Only the chosen one is marked.
func buildAnswerRow(item int, q entities.QuizItem) []tgbotapi.InlineKeyboardButton {
	labels := entities.Labels()
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(labels))
	for _, l := range labels {
		text := string(l)
		if q.Selected == l {
			if q.IsCorrect() {
				text = "✅ " + text
			} else {
				text = "❌ " + text
			}
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, buildAnswerCallback(item, l)))
	}
	return row
}

// buildNavRow builds item pagination for a tab. It returns nil for a single item.
func buildNavRow(tab workspace.Tab, idx, n int) []tgbotapi.InlineKeyboardButton {
	if n <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if idx > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", buildPageCallback(tab, idx-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", idx+1, n), buildNoopCallback()))
	if idx < n-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", buildPageCallback(tab, idx+1)))
	}
	return row
}

// buildActionRow offers Generate while idle and Cancel while a request runs.
func buildActionRow(st workspace.State) []tgbotapi.InlineKeyboardButton {
	switch {
	case st.Loading:
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", buildCancelCallback()),
		)
	case st.Document == nil:
		return nil
	case st.HasResults():
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Generate again", buildGenerateCallback()),
		)
	default:
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✨ Generate Study Materials", buildGenerateCallback()),
		)
	}
}
