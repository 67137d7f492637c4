package workspace

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument         = errors.New("no document selected")
	ErrSubmissionInFlight = errors.New("generation already in progress")
	ErrStaleTicket        = errors.New("ticket does not match pending request")
	ErrNoQuestions        = errors.New("no questions generated yet")
	ErrItemOutOfRange     = errors.New("quiz item out of range")
	ErrInvalidLabel       = errors.New("invalid option label")
	ErrAnswerLocked       = errors.New("question already answered")
	ErrUnknownTab         = errors.New("unknown tab")
	ErrUnknownEvent       = errors.New("unknown event")
)

// MsgCancelled is shown after the user abandons a request.
const MsgCancelled = "Generation cancelled"

// Reducer applies events to a state. It never mutates its input.
type Reducer struct {
	LockAnswers bool // reject re-answering an already answered quiz item
}

// Reduce returns the state after ev. On error the returned state equals s.
func (r Reducer) Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case FileSelected:
		return r.fileSelected(s, e), nil
	case SubmitRequested:
		return r.submitRequested(s, e)
	case SubmitSucceeded:
		return r.submitSucceeded(s, e)
	case SubmitFailed:
		return r.submitFailed(s, e.Ticket, e.Message)
	case SubmitCancelled:
		return r.submitFailed(s, e.Ticket, MsgCancelled)
	case AnswerSelected:
		return r.answerSelected(s, e)
	case TabSwitched:
		if !e.Tab.Valid() {
			return s, fmt.Errorf("%w: %q", ErrUnknownTab, e.Tab)
		}
		out := s.clone()
		out.ActiveTab = e.Tab
		return out, nil
	case CursorMoved:
		return r.cursorMoved(s, e)
	case PanelAttached:
		out := s.clone()
		out.PanelMessageID = e.MessageID
		return out, nil
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func (r Reducer) fileSelected(s State, e FileSelected) State {
	if e.Document == nil {
		return s
	}

	out := s.clone()
	d := *e.Document
	out.Document = &d
	out.Error = ""
	return out
}

func (r Reducer) submitRequested(s State, e SubmitRequested) (State, error) {
	if s.Document == nil {
		return s, ErrNoDocument
	}
	if s.Pending != nil {
		return s, ErrSubmissionInFlight
	}

	out := s.clone()
	out.Generation++
	out.Pending = &Ticket{Seq: out.Generation, RequestID: e.RequestID}
	out.Loading = true
	out.Error = ""
	return out, nil
}

func (r Reducer) submitSucceeded(s State, e SubmitSucceeded) (State, error) {
	if !s.owns(e.Ticket) {
		return s, ErrStaleTicket
	}

	if err := e.Set.Validate(); err != nil {
		return r.settle(s, err.Error()), nil
	}

	out := r.settle(s, "")
	out.Questions = e.Set.Clone()
	for i := range out.Questions.Quiz {
		out.Questions.Quiz[i].Selected = ""
	}
	out.Cursor = nil
	return out, nil
}

func (r Reducer) submitFailed(s State, t Ticket, msg string) (State, error) {
	if !s.owns(t) {
		return s, ErrStaleTicket
	}
	return r.settle(s, msg), nil
}

// settle clears the in-flight slot. Loading is reset on every completion path.
func (r Reducer) settle(s State, msg string) State {
	out := s.clone()
	out.Pending = nil
	out.Loading = false
	out.Error = msg
	return out
}

func (r Reducer) answerSelected(s State, e AnswerSelected) (State, error) {
	if s.Questions == nil {
		return s, ErrNoQuestions
	}
	if e.Item < 0 || e.Item >= len(s.Questions.Quiz) {
		return s, fmt.Errorf("%w: %d", ErrItemOutOfRange, e.Item)
	}
	if !e.Label.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidLabel, e.Label)
	}
	if r.LockAnswers && s.Questions.Quiz[e.Item].IsAnswered() {
		return s, ErrAnswerLocked
	}

	out := s.clone()
	out.Questions = s.Questions.Clone()
	out.Questions.Quiz[e.Item].Selected = e.Label
	return out, nil
}

func (r Reducer) cursorMoved(s State, e CursorMoved) (State, error) {
	if !e.Tab.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownTab, e.Tab)
	}

	idx := e.Index
	if n := s.Len(e.Tab); idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}

	out := s.clone()
	if out.Cursor == nil {
		out.Cursor = make(map[Tab]int, len(Tabs))
	}
	out.Cursor[e.Tab] = idx
	return out, nil
}

func (s State) owns(t Ticket) bool {
	return s.Pending != nil && *s.Pending == t
}
