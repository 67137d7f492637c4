package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/study-material-bot/internal/document"
	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// panel is a rendered workspace: message text plus its inline keyboard.
type panel struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

var tabTitles = map[workspace.Tab]string{
	workspace.TabQuiz:  "🏆 Quiz",
	workspace.TabShort: "💬 Short",
	workspace.TabLong:  "✍️ Long",
}

var badgeIcons = map[entities.ScoreBadge]string{
	entities.BadgeGreen:  "🟢",
	entities.BadgeYellow: "🟡",
	entities.BadgeRed:    "🔴",
}

// renderPanel renders the whole workspace. It only reads the state.
func renderPanel(st workspace.State, lockAnswers bool) panel {
	var sb strings.Builder

	if st.Document == nil {
		sb.WriteString(msgSendDocument)
	} else {
		sb.WriteString(renderFileCard(st.Document))
		if !document.LooksLikePDF(st.Document.FileName, st.Document.MimeType) {
			sb.WriteString("\n")
			sb.WriteString(msgNotPDFHint)
		}
		if st.CanSubmit() && !st.HasResults() && st.Error == "" {
			sb.WriteString("\n\n")
			sb.WriteString(msgReadyToGenerate)
		}
	}

	if st.Loading {
		sb.WriteString("\n\n")
		sb.WriteString(bold(msgGenerating))
	}

	if st.Error != "" {
		sb.WriteString("\n\n❌ ")
		sb.WriteString(esc(st.Error))
	}

	var rows [][]tgbotapi.InlineKeyboardButton

	if st.HasResults() {
		sb.WriteString("\n\n")
		text, itemRows := renderTab(st, lockAnswers)
		sb.WriteString(text)

		rows = append(rows, buildTabRow(st))
		rows = append(rows, itemRows...)
	}

	if row := buildActionRow(st); len(row) > 0 {
		rows = append(rows, row)
	}

	p := panel{Text: sb.String()}
	if len(rows) > 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
		p.Keyboard = &kb
	}
	return p
}

func renderFileCard(d *entities.Document) string {
	details := []string{formatSize(d.Size)}
	if d.Pages > 0 {
		details = append(details, fmt.Sprintf("%d pages", d.Pages))
	}

	return fmt.Sprintf("📄 %s\n<i>%s</i>", bold(d.FileName), esc(strings.Join(details, " · ")))
}

// renderTab renders the active tab and returns the keyboard rows that belong to it.
func renderTab(st workspace.State, lockAnswers bool) (string, [][]tgbotapi.InlineKeyboardButton) {
	tab := st.ActiveTab
	n := st.Len(tab)

	var sb strings.Builder
	if tab == workspace.TabQuiz {
		sb.WriteString(renderScore(st))
		sb.WriteString("\n\n")
	}

	if n == 0 {
		if tab == workspace.TabQuiz {
			sb.WriteString(msgNoQuizQuestions)
		} else {
			sb.WriteString(msgEmptyTab)
		}
		return sb.String(), nil
	}

	idx := st.CursorAt(tab)
	var rows [][]tgbotapi.InlineKeyboardButton

	switch tab {
	case workspace.TabQuiz:
		q := st.Questions.Quiz[idx]
		sb.WriteString(renderQuizItem(idx, n, q))
		if !lockAnswers || !q.IsAnswered() {
			rows = append(rows, buildAnswerRow(idx, q))
		}
	case workspace.TabShort:
		sb.WriteString(renderAnswerItem(idx, n, st.Questions.ShortAnswers[idx]))
	case workspace.TabLong:
		sb.WriteString(renderAnswerItem(idx, n, st.Questions.LongAnswers[idx]))
	}

	if nav := buildNavRow(tab, idx, n); nav != nil {
		rows = append(rows, nav)
	}

	return sb.String(), rows
}

func renderScore(st workspace.State) string {
	total := st.Total()
	if total == 0 {
		return bold("Score: –")
	}

	score := st.Score()
	text := fmt.Sprintf("Score: %d/%d (%.0f%%)", score, total, entities.Percentage(score, total))
	return bold(text) + " " + badgeIcons[st.Badge()]
}

func renderQuizItem(idx, n int, q entities.QuizItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Question %d/%d</b>\n%s\n", idx+1, n, esc(q.Question))

	for i, opt := range q.Options {
		l, err := entities.LabelAt(i)
		if err != nil {
			break
		}
		fmt.Fprintf(&sb, "\n<b>%s</b>  %s", l, esc(optionText(l, opt)))
		if q.Selected == l {
			if q.IsCorrect() {
				sb.WriteString("  " + msgCorrect)
			} else {
				sb.WriteString("  " + msgIncorrect)
			}
		}
	}

	return sb.String()
}

func renderAnswerItem(idx, n int, item entities.AnswerItem) string {
	return fmt.Sprintf(
		"<b>Question %d/%d</b>\n%s\n\n<b>%s:</b>\n%s",
		idx+1, n,
		esc(item.Question),
		msgAnswerLabel,
		esc(truncate(item.Answer, maxAnswerRunes)),
	)
}

// optionText drops a leading "A) " style marker the generator may put in front of an option.
func optionText(l entities.Label, opt string) string {
	trimmed := strings.TrimSpace(opt)
	for _, sep := range []string{")", ".", ":"} {
		prefix := string(l) + sep
		if len(trimmed) > len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return trimmed
}
