package entities

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResponse is returned when a generator payload does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response")

var validate = validator.New(validator.WithRequiredStructEnabled())

// QuestionSet is the study material generated for one uploaded document.
type QuestionSet struct {
	Quiz         []QuizItem   `json:"quiz" validate:"required,dive"`
	ShortAnswers []AnswerItem `json:"short_answers" validate:"required,dive"`
	LongAnswers  []AnswerItem `json:"long_answers" validate:"required,dive"`
}

// Validate checks the payload shape. Any violation wraps ErrMalformedResponse.
func (qs *QuestionSet) Validate() error {
	if qs == nil {
		return fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	if err := validate.Struct(qs); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrMalformedResponse, f.Namespace(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

// Clone returns a deep copy so callers can record selections without aliasing.
func (qs *QuestionSet) Clone() *QuestionSet {
	if qs == nil {
		return nil
	}

	out := &QuestionSet{
		Quiz:         make([]QuizItem, len(qs.Quiz)),
		ShortAnswers: append([]AnswerItem(nil), qs.ShortAnswers...),
		LongAnswers:  append([]AnswerItem(nil), qs.LongAnswers...),
	}
	for i, q := range qs.Quiz {
		q.Options = append([]string(nil), q.Options...)
		out.Quiz[i] = q
	}

	return out
}

// Score counts quiz items whose selected option equals the correct one.
func Score(qs *QuestionSet) int {
	if qs == nil {
		return 0
	}

	n := 0
	for _, q := range qs.Quiz {
		if q.IsCorrect() {
			n++
		}
	}
	return n
}

// Answered counts quiz items with any selection.
func Answered(qs *QuestionSet) int {
	if qs == nil {
		return 0
	}

	n := 0
	for _, q := range qs.Quiz {
		if q.IsAnswered() {
			n++
		}
	}
	return n
}

// ScoreBadge is the colour tier of a quiz score.
type ScoreBadge string

const (
	BadgeNone   ScoreBadge = ""
	BadgeGreen  ScoreBadge = "green"
	BadgeYellow ScoreBadge = "yellow"
	BadgeRed    ScoreBadge = "red"
)

// Badge maps a score to its colour tier: at least 80% green, at least 60% yellow,
// red otherwise. An empty quiz has no badge.
func Badge(score, total int) ScoreBadge {
	if total <= 0 {
		return BadgeNone
	}

	switch {
	case score*100 >= 80*total:
		return BadgeGreen
	case score*100 >= 60*total:
		return BadgeYellow
	default:
		return BadgeRed
	}
}

// Percentage returns score/total in percent, 0 for an empty quiz.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
