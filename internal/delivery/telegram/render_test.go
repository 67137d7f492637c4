package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

func quizItem(q string, correct entities.Label) entities.QuizItem {
	return entities.QuizItem{
		Question: q,
		Options:  []string{"A) alpha", "B) beta", "C) gamma", "D) delta"},
		Correct:  correct,
	}
}

func loadedState(items ...entities.QuizItem) workspace.State {
	st := workspace.New()
	st.Document = entities.NewDocument("f1", "notes.pdf", "application/pdf", 2048)
	st.Questions = &entities.QuestionSet{
		Quiz:         items,
		ShortAnswers: []entities.AnswerItem{{Question: "Why?", Answer: "Because."}},
		LongAnswers:  []entities.AnswerItem{},
	}
	return st
}

func buttons(p panel) []tgbotapi.InlineKeyboardButton {
	if p.Keyboard == nil {
		return nil
	}
	var out []tgbotapi.InlineKeyboardButton
	for _, row := range p.Keyboard.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func buttonTexts(p panel) []string {
	var out []string
	for _, b := range buttons(p) {
		out = append(out, b.Text)
	}
	return out
}

func TestRenderEmptyWorkspace(t *testing.T) {
	p := renderPanel(workspace.New(), false)
	require.Equal(t, msgSendDocument, p.Text)
	require.Nil(t, p.Keyboard)
}

func TestRenderSelectedFile(t *testing.T) {
	st := workspace.New()
	st.Document = entities.NewDocument("f1", "a<b>.pdf", "application/pdf", 2048)
	st.Document.Pages = 12

	p := renderPanel(st, false)
	require.Contains(t, p.Text, "a&lt;b&gt;.pdf")
	require.Contains(t, p.Text, "2.0 KB · 12 pages")
	require.Contains(t, p.Text, msgReadyToGenerate)
	require.NotContains(t, p.Text, msgNotPDFHint)
	require.Equal(t, []string{"✨ Generate Study Materials"}, buttonTexts(p))
}

func TestRenderNonPDFHint(t *testing.T) {
	st := workspace.New()
	st.Document = entities.NewDocument("f1", "notes.txt", "text/plain", 10)

	p := renderPanel(st, false)
	require.Contains(t, p.Text, msgNotPDFHint)
}

func TestRenderLoadingOffersCancel(t *testing.T) {
	st := workspace.New()
	st.Document = entities.NewDocument("f1", "notes.pdf", "application/pdf", 10)
	st.Loading = true
	st.Pending = &workspace.Ticket{Seq: 1}

	p := renderPanel(st, false)
	require.Contains(t, p.Text, msgGenerating)
	require.NotContains(t, p.Text, msgReadyToGenerate)
	require.Equal(t, []string{"✖️ Cancel"}, buttonTexts(p))
}

func TestRenderErrorBanner(t *testing.T) {
	st := workspace.New()
	st.Document = entities.NewDocument("f1", "notes.pdf", "application/pdf", 10)
	st.Error = "Generation failed"

	p := renderPanel(st, false)
	require.Contains(t, p.Text, "❌ Generation failed")
}

func TestRenderQuizTabLabels(t *testing.T) {
	st := loadedState(quizItem("q1", entities.LabelA), quizItem("q2", entities.LabelB))
	st.Questions.Quiz[0].Selected = entities.LabelA
	st.Questions.Quiz[1].Selected = entities.LabelA

	texts := buttonTexts(renderPanel(st, false))
	require.Contains(t, texts, "• 🏆 Quiz 1/2 🔴 •")
	require.Contains(t, texts, "💬 Short 1")
	require.Contains(t, texts, "✍️ Long 0")
	require.Contains(t, texts, "🔄 Generate again")
}

func TestRenderMarksOnlySelectedOption(t *testing.T) {
	st := loadedState(quizItem("What is Go?", entities.LabelB))
	st.Questions.Quiz[0].Selected = entities.LabelC

	p := renderPanel(st, false)
	require.Contains(t, p.Text, "<b>C</b>  gamma  "+msgIncorrect)
	require.NotContains(t, p.Text, msgCorrect)
	require.NotContains(t, p.Text, "A) alpha")

	texts := buttonTexts(p)
	require.Contains(t, texts, "❌ C")
	require.Contains(t, texts, "B")
}

func TestRenderUnansweredShowsNoVerdict(t *testing.T) {
	p := renderPanel(loadedState(quizItem("q", entities.LabelA)), false)
	require.NotContains(t, p.Text, msgCorrect)
	require.NotContains(t, p.Text, msgIncorrect)
	require.Contains(t, p.Text, "Score: 0/1 (0%)")
}

func TestRenderLockedAnswerHidesButtons(t *testing.T) {
	st := loadedState(quizItem("q", entities.LabelA))
	st.Questions.Quiz[0].Selected = entities.LabelA

	for _, b := range buttons(renderPanel(st, true)) {
		require.False(t, strings.HasPrefix(*b.CallbackData, actionAnswer+":"))
	}
	require.Contains(t, buttonTexts(renderPanel(st, false)), "✅ A")
}

func TestRenderNavigation(t *testing.T) {
	st := loadedState(quizItem("q1", entities.LabelA), quizItem("q2", entities.LabelA), quizItem("q3", entities.LabelA))
	st.Cursor = map[workspace.Tab]int{workspace.TabQuiz: 1}

	p := renderPanel(st, false)
	require.Contains(t, p.Text, "Question 2/3")
	texts := buttonTexts(p)
	require.Contains(t, texts, "◀️")
	require.Contains(t, texts, "2/3")
	require.Contains(t, texts, "▶️")
}

func TestRenderEmptyTabs(t *testing.T) {
	st := loadedState()
	p := renderPanel(st, false)
	require.Contains(t, p.Text, msgNoQuizQuestions)
	require.Contains(t, p.Text, "Score: –")

	st.ActiveTab = workspace.TabLong
	p = renderPanel(st, false)
	require.Contains(t, p.Text, msgEmptyTab)
}

func TestRenderAnswerTabTruncates(t *testing.T) {
	st := loadedState()
	st.ActiveTab = workspace.TabShort
	st.Questions.ShortAnswers[0].Answer = strings.Repeat("x", maxAnswerRunes+50)

	p := renderPanel(st, false)
	require.Contains(t, p.Text, "Question 1/1")
	require.Contains(t, p.Text, "…")
	require.Less(t, len([]rune(p.Text)), 4096)
}

func TestOptionText(t *testing.T) {
	require.Equal(t, "alpha", optionText(entities.LabelA, "A) alpha"))
	require.Equal(t, "beta", optionText(entities.LabelB, "b. beta"))
	require.Equal(t, "A) alpha", optionText(entities.LabelB, "A) alpha"))
	require.Equal(t, "plain", optionText(entities.LabelC, " plain "))
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512 B", formatSize(512))
	require.Equal(t, "1.5 KB", formatSize(1536))
	require.Equal(t, "10.0 MB", formatSize(10<<20))
}
