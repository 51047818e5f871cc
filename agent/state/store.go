package state

import (
	"context"
	"strings"
	"sync"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

const (
	defaultStoreKeyPrefix = "trip:thread:"
	defaultStoreTTL       = 24 * time.Hour
)

// Store is the persistence contract used by the orchestrator. Both methods
// return snapshots the caller may modify freely.
type Store interface {
	// Resolve returns the thread, creating an empty one on first use.
	Resolve(ctx context.Context, threadID string) (*ThreadState, error)
	// Append adds turns in order as one atomic step and bumps the version.
	Append(ctx context.Context, threadID string, turns ...contractx.Turn) (*ThreadState, error)
}

// MemoryStore keeps threads in process memory. Threads are never evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*memoryThread
	now     func() time.Time
}

type memoryThread struct {
	mu    sync.Mutex
	state *ThreadState
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads: make(map[string]*memoryThread),
		now:     time.Now,
	}
}

func (s *MemoryStore) Resolve(ctx context.Context, threadID string) (*ThreadState, error) {
	th, err := s.thread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.state.Clone(), nil
}

func (s *MemoryStore) Append(ctx context.Context, threadID string, turns ...contractx.Turn) (*ThreadState, error) {
	if len(turns) == 0 {
		return nil, ErrNoTurns
	}
	th, err := s.thread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	th.mu.Lock()
	defer th.mu.Unlock()
	th.state.Turns = append(th.state.Turns, cloneTurns(turns)...)
	th.state.Version++
	th.state.Touch(s.now())
	return th.state.Clone(), nil
}

// Len reports how many threads exist.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// thread holds the map lock only long enough to find or insert the entry.
func (s *MemoryStore) thread(ctx context.Context, threadID string) (*memoryThread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(threadID) == "" {
		return nil, ErrInvalidThread
	}

	s.mu.RLock()
	th, ok := s.threads[threadID]
	s.mu.RUnlock()
	if ok {
		return th, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if th, ok = s.threads[threadID]; ok {
		return th, nil
	}
	th = &memoryThread{state: NewThreadState(threadID, s.now())}
	s.threads[threadID] = th
	return th, nil
}
