package entities

import "fmt"

// Label identifies one of the four option slots of a quiz item.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// OptionsPerItem is the number of choices every quiz item carries.
const OptionsPerItem = 4

var labels = [OptionsPerItem]Label{LabelA, LabelB, LabelC, LabelD}

// Labels returns the option labels in positional order.
func Labels() []Label {
	return labels[:]
}

// LabelAt maps an option position to its label.
func LabelAt(i int) (Label, error) {
	if i < 0 || i >= OptionsPerItem {
		return "", fmt.Errorf("option index %d out of range", i)
	}
	return labels[i], nil
}

// Index returns the option position of the label, or -1 for an unknown label.
func (l Label) Index() int {
	for i, v := range labels {
		if v == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of A, B, C or D.
func (l Label) Valid() bool {
	return l.Index() >= 0
}

// QuizItem is a multiple-choice question returned by the generator.
// Selected is the only field written after the item is received.
type QuizItem struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"len=4,dive,required"`
	Correct  Label    `json:"correct" validate:"required,oneof=A B C D"`
	Selected Label    `json:"selected,omitempty" validate:"omitempty,oneof=A B C D"`
}

// IsAnswered reports whether the user has picked an option.
func (q QuizItem) IsAnswered() bool {
	return q.Selected != ""
}

// IsCorrect reports whether the picked option matches the recorded answer.
func (q QuizItem) IsCorrect() bool {
	return q.IsAnswered() && q.Selected == q.Correct
}

// Option returns the option text for a label.
func (q QuizItem) Option(l Label) string {
	i := l.Index()
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

// AnswerItem is a question with a reference answer (short or long form).
type AnswerItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}
