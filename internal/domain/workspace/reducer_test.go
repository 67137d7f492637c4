package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
)

func doc(name string) *entities.Document {
	return entities.NewDocument("file-"+name, name, "application/pdf", 1024)
}

func set(n int) *entities.QuestionSet {
	qs := &entities.QuestionSet{
		Quiz:         []entities.QuizItem{},
		ShortAnswers: []entities.AnswerItem{{Question: "s1", Answer: "a1"}},
		LongAnswers:  []entities.AnswerItem{{Question: "l1", Answer: "a1"}, {Question: "l2", Answer: "a2"}},
	}
	for i := 0; i < n; i++ {
		qs.Quiz = append(qs.Quiz, entities.QuizItem{
			Question: "q",
			Options:  []string{"a", "b", "c", "d"},
			Correct:  entities.LabelA,
		})
	}
	return qs
}

func reduce(t *testing.T, r Reducer, s State, evs ...Event) State {
	t.Helper()
	for _, ev := range evs {
		var err error
		s, err = r.Reduce(s, ev)
		require.NoError(t, err)
	}
	return s
}

// loaded returns a state holding a successful result of n quiz items.
func loaded(t *testing.T, r Reducer, n int) State {
	t.Helper()
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")}, SubmitRequested{RequestID: "r1"})
	return reduce(t, r, s, SubmitSucceeded{Ticket: *s.Pending, Set: set(n)})
}

func TestFileSelectedClearsError(t *testing.T) {
	var r Reducer
	s := New()
	s.Error = "Generation failed"

	s = reduce(t, r, s, FileSelected{Document: doc("a.pdf")})
	require.Empty(t, s.Error)
	require.Equal(t, "a.pdf", s.Document.FileName)

	s = reduce(t, r, s, FileSelected{Document: doc("b.pdf")})
	require.Equal(t, "b.pdf", s.Document.FileName)
}

func TestFileSelectedWithoutDocumentIsNoop(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")})
	s.Error = "boom"

	got := reduce(t, r, s, FileSelected{})
	require.Equal(t, s, got)
}

func TestSubmitWithoutDocument(t *testing.T) {
	var r Reducer
	s := New()

	got, err := r.Reduce(s, SubmitRequested{RequestID: "r1"})
	require.ErrorIs(t, err, ErrNoDocument)
	require.Equal(t, s, got)
}

func TestSubmitRequestedSetsLoading(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")})
	s.Error = "old"

	s = reduce(t, r, s, SubmitRequested{RequestID: "r1"})
	require.True(t, s.Loading)
	require.Empty(t, s.Error)
	require.Equal(t, &Ticket{Seq: 1, RequestID: "r1"}, s.Pending)
	require.False(t, s.CanSubmit())
}

func TestSecondSubmitWhilePendingIsRejected(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")}, SubmitRequested{RequestID: "r1"})

	got, err := r.Reduce(s, SubmitRequested{RequestID: "r2"})
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	require.Equal(t, s, got)
}

func TestSuccessReplacesResultsAndResetsScore(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 4)
	require.Equal(t, 0, s.Score())
	require.Equal(t, entities.BadgeRed, s.Badge())
	require.False(t, s.Loading)
	require.Nil(t, s.Pending)

	s = reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelA})
	require.Equal(t, 1, s.Score())

	s = reduce(t, r, s, SubmitRequested{RequestID: "r2"})
	s = reduce(t, r, s, SubmitSucceeded{Ticket: *s.Pending, Set: set(3)})
	require.Equal(t, 3, s.Total())
	require.Equal(t, 0, s.Score())
}

func TestSuccessDropsIncomingSelections(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")}, SubmitRequested{RequestID: "r1"})
	in := set(2)
	in.Quiz[0].Selected = entities.LabelA

	s = reduce(t, r, s, SubmitSucceeded{Ticket: *s.Pending, Set: in})
	require.Equal(t, 0, s.Score())
	require.Equal(t, entities.LabelA, in.Quiz[0].Selected)
}

func TestFailureKeepsPreviousQuestions(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 2)
	s = reduce(t, r, s, AnswerSelected{Item: 1, Label: entities.LabelA})
	prev := s.Questions

	s = reduce(t, r, s, SubmitRequested{RequestID: "r2"})
	s = reduce(t, r, s, SubmitFailed{Ticket: *s.Pending, Message: "Generation failed"})
	require.Equal(t, "Generation failed", s.Error)
	require.False(t, s.Loading)
	require.Nil(t, s.Pending)
	require.Equal(t, prev, s.Questions)
	require.Equal(t, 1, s.Score())
}

func TestMalformedSetBecomesError(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")}, SubmitRequested{RequestID: "r1"})
	bad := set(1)
	bad.Quiz[0].Options = bad.Quiz[0].Options[:2]

	s = reduce(t, r, s, SubmitSucceeded{Ticket: *s.Pending, Set: bad})
	require.Contains(t, s.Error, entities.ErrMalformedResponse.Error())
	require.Nil(t, s.Questions)
	require.False(t, s.Loading)
}

func TestStaleCompletionIsIgnored(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), FileSelected{Document: doc("a.pdf")}, SubmitRequested{RequestID: "r1"})
	old := *s.Pending
	s = reduce(t, r, s, SubmitCancelled{Ticket: old})
	require.Equal(t, MsgCancelled, s.Error)
	s = reduce(t, r, s, SubmitRequested{RequestID: "r2"})

	got, err := r.Reduce(s, SubmitSucceeded{Ticket: old, Set: set(1)})
	require.ErrorIs(t, err, ErrStaleTicket)
	require.Equal(t, s, got)
	require.True(t, got.Loading)
}

func TestScoreBadgeTiers(t *testing.T) {
	var r Reducer
	tests := []struct {
		correct int
		want    entities.ScoreBadge
	}{
		{4, entities.BadgeGreen},
		{3, entities.BadgeYellow},
		{2, entities.BadgeRed},
	}

	for _, tt := range tests {
		s := loaded(t, r, 5)
		for i := 0; i < 5; i++ {
			l := entities.LabelB
			if i < tt.correct {
				l = entities.LabelA
			}
			s = reduce(t, r, s, AnswerSelected{Item: i, Label: l})
		}
		require.Equal(t, tt.correct, s.Score())
		require.Equal(t, tt.want, s.Badge())
	}
}

func TestEmptyQuizHasNoBadge(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 0)
	require.Equal(t, entities.BadgeNone, s.Badge())
}

func TestReanswerOverwritesSelection(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 2)

	s = reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelA})
	require.Equal(t, 1, s.Score())

	s = reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelA})
	require.Equal(t, 1, s.Score())

	s = reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelC})
	require.Equal(t, 0, s.Score())
	require.Equal(t, entities.LabelC, s.Questions.Quiz[0].Selected)
}

func TestLockedAnswersRejectReanswer(t *testing.T) {
	r := Reducer{LockAnswers: true}
	s := loaded(t, r, 2)
	s = reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelB})

	got, err := r.Reduce(s, AnswerSelected{Item: 0, Label: entities.LabelA})
	require.ErrorIs(t, err, ErrAnswerLocked)
	require.Equal(t, entities.LabelB, got.Questions.Quiz[0].Selected)
}

func TestAnswerSelectedDoesNotMutateInput(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 1)

	next := reduce(t, r, s, AnswerSelected{Item: 0, Label: entities.LabelA})
	require.Empty(t, s.Questions.Quiz[0].Selected)
	require.Equal(t, entities.LabelA, next.Questions.Quiz[0].Selected)
}

func TestAnswerSelectedValidation(t *testing.T) {
	var r Reducer
	_, err := r.Reduce(New(), AnswerSelected{Item: 0, Label: entities.LabelA})
	require.ErrorIs(t, err, ErrNoQuestions)

	s := loaded(t, r, 1)
	_, err = r.Reduce(s, AnswerSelected{Item: 1, Label: entities.LabelA})
	require.ErrorIs(t, err, ErrItemOutOfRange)
	_, err = r.Reduce(s, AnswerSelected{Item: 0, Label: "Z"})
	require.ErrorIs(t, err, ErrInvalidLabel)
}

func TestTabSwitchKeepsAnswers(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 3)
	s = reduce(t, r, s, AnswerSelected{Item: 2, Label: entities.LabelA})
	before := s.Questions

	for _, tab := range []Tab{TabShort, TabLong, TabQuiz} {
		s = reduce(t, r, s, TabSwitched{Tab: tab})
		require.Equal(t, tab, s.ActiveTab)
		require.Equal(t, before, s.Questions)
		require.Equal(t, 1, s.Score())
	}

	_, err := r.Reduce(s, TabSwitched{Tab: "notes"})
	require.ErrorIs(t, err, ErrUnknownTab)
}

func TestCursorIsClamped(t *testing.T) {
	var r Reducer
	s := loaded(t, r, 3)

	s = reduce(t, r, s, CursorMoved{Tab: TabQuiz, Index: 10})
	require.Equal(t, 2, s.CursorAt(TabQuiz))

	s = reduce(t, r, s, CursorMoved{Tab: TabLong, Index: -4})
	require.Equal(t, 0, s.CursorAt(TabLong))

	s = reduce(t, r, s, CursorMoved{Tab: TabLong, Index: 1})
	require.Equal(t, 1, s.CursorAt(TabLong))
	require.Equal(t, 2, s.CursorAt(TabQuiz))
}

func TestPanelAttached(t *testing.T) {
	var r Reducer
	s := reduce(t, r, New(), PanelAttached{MessageID: 42})
	require.Equal(t, 42, s.PanelMessageID)
}
