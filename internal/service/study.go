package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/generator"
)

var ErrNothingToCancel = errors.New("no generation in progress")

const settleTimeout = 10 * time.Second

// Submission is a started generation: the ticket that owns the in-flight slot
// and the document captured when it was requested.
type Submission struct {
	Ticket   workspace.Ticket
	Document entities.Document
}

type inflight struct {
	ticket workspace.Ticket
	cancel context.CancelFunc
}

// StudyService drives a chat workspace through the reducer and runs generation requests.
type StudyService struct {
	store     WorkspaceStore
	generator Generator
	files     FileFetcher
	reducer   workspace.Reducer
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[int64]inflight
}

func NewStudyService(
	store WorkspaceStore,
	generator Generator,
	files FileFetcher,
	reducer workspace.Reducer,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		store:     store,
		generator: generator,
		files:     files,
		reducer:   reducer,
		logger:    logger,
		inflight:  make(map[int64]inflight),
	}
}

// Workspace returns the current state of a chat.
func (s *StudyService) Workspace(ctx context.Context, chatID int64) (workspace.State, error) {
	return s.store.Load(ctx, chatID)
}

// SelectFile replaces the chosen document and clears the error banner.
func (s *StudyService) SelectFile(ctx context.Context, chatID int64, doc *entities.Document) (workspace.State, error) {
	return s.apply(ctx, chatID, workspace.FileSelected{Document: doc})
}

// Begin takes the in-flight slot. It fails without side effects when no file is
// selected or a request is already running.
func (s *StudyService) Begin(ctx context.Context, chatID int64) (workspace.State, Submission, error) {
	st, err := s.apply(ctx, chatID, workspace.SubmitRequested{RequestID: uuid.NewString()})
	if err != nil {
		return st, Submission{}, err
	}

	sub := Submission{Ticket: *st.Pending, Document: *st.Document}
	s.logger.Info("generation started",
		zap.Int64("chat_id", chatID),
		zap.String("request_id", sub.Ticket.RequestID),
		zap.String("file_name", sub.Document.FileName),
	)
	return st, sub, nil
}

// Run performs the request of a started submission and settles the workspace.
// Loading is cleared on every path. A completion for an abandoned ticket is dropped.
func (s *StudyService) Run(ctx context.Context, chatID int64, sub Submission) (workspace.State, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.track(chatID, sub.Ticket, cancel)
	defer s.untrack(chatID, sub.Ticket)

	log := s.logger.With(
		zap.Int64("chat_id", chatID),
		zap.String("request_id", sub.Ticket.RequestID),
	)

	ev := s.generate(runCtx, sub)

	// Settle even when the caller's context is gone, otherwise the workspace stays loading.
	settleCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer stop()

	st, err := s.apply(settleCtx, chatID, ev)
	if errors.Is(err, workspace.ErrStaleTicket) {
		log.Info("dropping result of abandoned request")
		cur, loadErr := s.store.Load(settleCtx, chatID)
		if loadErr != nil {
			return st, loadErr
		}
		return cur, nil
	}
	if err != nil {
		return st, fmt.Errorf("settle generation: %w", err)
	}

	if st.Error != "" {
		log.Warn("generation finished with error", zap.String("error", st.Error))
	} else {
		log.Info("generation finished",
			zap.Int("quiz", len(st.Questions.Quiz)),
			zap.Int("short_answers", len(st.Questions.ShortAnswers)),
			zap.Int("long_answers", len(st.Questions.LongAnswers)),
		)
	}

	return st, nil
}

func (s *StudyService) generate(ctx context.Context, sub Submission) workspace.Event {
	data, err := s.files.Fetch(ctx, sub.Document.FileID)
	if err != nil {
		return workspace.SubmitFailed{Ticket: sub.Ticket, Message: err.Error()}
	}

	qs, err := s.generator.Generate(ctx, generator.Upload{
		FileName:  sub.Document.FileName,
		Data:      data,
		RequestID: sub.Ticket.RequestID,
	})
	if err != nil {
		return workspace.SubmitFailed{Ticket: sub.Ticket, Message: err.Error()}
	}

	return workspace.SubmitSucceeded{Ticket: sub.Ticket, Set: qs}
}

// Cancel abandons the pending request of a chat and aborts it if it runs in this process.
func (s *StudyService) Cancel(ctx context.Context, chatID int64) (workspace.State, error) {
	st, err := s.store.Update(ctx, chatID, func(cur workspace.State) (workspace.State, error) {
		if cur.Pending == nil {
			return cur, ErrNothingToCancel
		}
		return s.reducer.Reduce(cur, workspace.SubmitCancelled{Ticket: *cur.Pending})
	})
	if err != nil {
		return st, err
	}

	s.mu.Lock()
	f, ok := s.inflight[chatID]
	s.mu.Unlock()
	if ok {
		f.cancel()
	}

	s.logger.Info("generation cancelled", zap.Int64("chat_id", chatID))
	return st, nil
}

// SelectAnswer records a quiz choice; the score is derived from the result.
func (s *StudyService) SelectAnswer(ctx context.Context, chatID int64, item int, label entities.Label) (workspace.State, error) {
	return s.apply(ctx, chatID, workspace.AnswerSelected{Item: item, Label: label})
}

// SwitchTab changes the active view.
func (s *StudyService) SwitchTab(ctx context.Context, chatID int64, tab workspace.Tab) (workspace.State, error) {
	return s.apply(ctx, chatID, workspace.TabSwitched{Tab: tab})
}

// ShowItem switches to tab and pages it to index.
func (s *StudyService) ShowItem(ctx context.Context, chatID int64, tab workspace.Tab, index int) (workspace.State, error) {
	return s.store.Update(ctx, chatID, func(cur workspace.State) (workspace.State, error) {
		next, err := s.reducer.Reduce(cur, workspace.TabSwitched{Tab: tab})
		if err != nil {
			return cur, err
		}
		return s.reducer.Reduce(next, workspace.CursorMoved{Tab: tab, Index: index})
	})
}

// AttachPanel remembers the message that renders the workspace.
func (s *StudyService) AttachPanel(ctx context.Context, chatID int64, messageID int) (workspace.State, error) {
	return s.apply(ctx, chatID, workspace.PanelAttached{MessageID: messageID})
}

// Reset aborts any request and forgets the workspace.
func (s *StudyService) Reset(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	f, ok := s.inflight[chatID]
	s.mu.Unlock()
	if ok {
		f.cancel()
	}
	return s.store.Delete(ctx, chatID)
}

func (s *StudyService) apply(ctx context.Context, chatID int64, ev workspace.Event) (workspace.State, error) {
	return s.store.Update(ctx, chatID, func(cur workspace.State) (workspace.State, error) {
		return s.reducer.Reduce(cur, ev)
	})
}

func (s *StudyService) track(chatID int64, t workspace.Ticket, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[chatID] = inflight{ticket: t, cancel: cancel}
}

func (s *StudyService) untrack(chatID int64, t workspace.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.inflight[chatID]; ok && f.ticket == t {
		delete(s.inflight, chatID)
	}
}
