package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// WorkspaceStorage provides in-memory storage for chat workspaces.
type WorkspaceStorage struct {
	mu         sync.RWMutex
	workspaces map[int64]workspace.State
	now        func() time.Time
}

// NewWorkspaceStorage creates a new WorkspaceStorage.
func NewWorkspaceStorage() *WorkspaceStorage {
	return &WorkspaceStorage{
		workspaces: make(map[int64]workspace.State),
		now:        time.Now,
	}
}

// Load returns the workspace of a chat, or a fresh one.
func (s *WorkspaceStorage) Load(_ context.Context, chatID int64) (workspace.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.workspaces[chatID]
	if !ok {
		return workspace.New(), nil
	}
	return st, nil
}

// Update applies fn to the stored workspace under the write lock.
// Nothing is stored when fn fails.
func (s *WorkspaceStorage) Update(
	_ context.Context, chatID int64, fn func(workspace.State) (workspace.State, error),
) (workspace.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.workspaces[chatID]
	if !ok {
		cur = workspace.New()
	}

	next, err := fn(cur)
	if err != nil {
		return cur, err
	}

	next.UpdatedAt = s.now()
	s.workspaces[chatID] = next
	return next, nil
}

// Delete removes the workspace of a chat.
func (s *WorkspaceStorage) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, chatID)
	return nil
}

// Sweep evicts workspaces idle for longer than ttl. Workspaces with a request
// in flight are kept. It returns the number of evicted entries.
func (s *WorkspaceStorage) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for id, st := range s.workspaces {
		if st.Pending == nil && st.UpdatedAt.Before(cutoff) {
			delete(s.workspaces, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored workspaces.
func (s *WorkspaceStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *WorkspaceStorage) RunSweeper(ctx context.Context, interval, ttl time.Duration, onSweep func(n int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
