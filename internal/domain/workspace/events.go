package workspace

import "github.com/aliskhannn/study-material-bot/internal/domain/entities"

// Event is an input to the reducer.
type Event interface {
	event()
}

// FileSelected replaces the chosen document. A nil document models a cancelled picker.
type FileSelected struct {
	Document *entities.Document
}

// SubmitRequested starts a generation request.
type SubmitRequested struct {
	RequestID string
}

// SubmitSucceeded delivers a validated question set for a ticket.
type SubmitSucceeded struct {
	Ticket Ticket
	Set    *entities.QuestionSet
}

// SubmitFailed delivers the error message for a ticket.
type SubmitFailed struct {
	Ticket  Ticket
	Message string
}

// SubmitCancelled abandons the in-flight ticket.
type SubmitCancelled struct {
	Ticket Ticket
}

// AnswerSelected records the user's choice for a quiz item.
type AnswerSelected struct {
	Item  int
	Label entities.Label
}

// TabSwitched changes the active view.
type TabSwitched struct {
	Tab Tab
}

// CursorMoved pages a tab to another item.
type CursorMoved struct {
	Tab   Tab
	Index int
}

// PanelAttached remembers the chat message that renders this workspace.
type PanelAttached struct {
	MessageID int
}

func (FileSelected) event()    {}
func (SubmitRequested) event() {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}
func (SubmitCancelled) event() {}
func (AnswerSelected) event()  {}
func (TabSwitched) event()     {}
func (CursorMoved) event()     {}
func (PanelAttached) event()   {}
