package workspace

import (
	"time"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
)

// Tab is one of the three mutually exclusive result views.
type Tab string

const (
	TabQuiz  Tab = "quiz"
	TabShort Tab = "short"
	TabLong  Tab = "long"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabQuiz, TabShort, TabLong}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabQuiz, TabShort, TabLong:
		return true
	default:
		return false
	}
}

// Ticket identifies the single in-flight generation request of a workspace.
type Ticket struct {
	Seq       uint64 `json:"seq"`
	RequestID string `json:"request_id"`
}

// State is the whole UI state of one chat.
type State struct {
	Document       *entities.Document    `json:"document,omitempty"`
	Loading        bool                  `json:"loading"`
	Error          string                `json:"error,omitempty"`
	ActiveTab      Tab                   `json:"active_tab"`
	Questions      *entities.QuestionSet `json:"questions,omitempty"`
	Pending        *Ticket               `json:"pending,omitempty"`
	Cursor         map[Tab]int           `json:"cursor,omitempty"`
	PanelMessageID int                   `json:"panel_message_id,omitempty"`
	Generation     uint64                `json:"generation"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// New returns the initial state: nothing selected, quiz tab active.
func New() State {
	return State{ActiveTab: TabQuiz}
}

// HasResults reports whether a question set has been received.
func (s State) HasResults() bool {
	return s.Questions != nil
}

// CanSubmit mirrors the submit guard: a file is present and nothing is in flight.
func (s State) CanSubmit() bool {
	return s.Document != nil && s.Pending == nil
}

// Score is recomputed from the question set on every call.
func (s State) Score() int {
	return entities.Score(s.Questions)
}

// Total is the number of quiz items.
func (s State) Total() int {
	if s.Questions == nil {
		return 0
	}
	return len(s.Questions.Quiz)
}

// Badge is the colour tier of the current score.
func (s State) Badge() entities.ScoreBadge {
	return entities.Badge(s.Score(), s.Total())
}

// Len returns the number of items shown on a tab.
func (s State) Len(t Tab) int {
	if s.Questions == nil {
		return 0
	}

	switch t {
	case TabQuiz:
		return len(s.Questions.Quiz)
	case TabShort:
		return len(s.Questions.ShortAnswers)
	case TabLong:
		return len(s.Questions.LongAnswers)
	default:
		return 0
	}
}

// CursorAt returns the item index shown on a tab.
func (s State) CursorAt(t Tab) int {
	return s.Cursor[t]
}

func (s State) clone() State {
	out := s
	if s.Document != nil {
		d := *s.Document
		out.Document = &d
	}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	if s.Cursor != nil {
		out.Cursor = make(map[Tab]int, len(s.Cursor))
		for k, v := range s.Cursor {
			out.Cursor[k] = v
		}
	}
	// Questions are copied lazily by the events that write into them.
	return out
}
