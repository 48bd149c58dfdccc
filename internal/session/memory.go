package session

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

const DefaultMaxEntries = 1000

type memoryEntry struct {
	id        string
	ctx       *models.SessionContext
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. When full, the session written
// least recently is evicted.
type MemoryStore struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List
	entries    map[string]*list.Element
	now        func() time.Time
}

// NewMemoryStore returns a store holding at most maxEntries sessions. A zero
// ttl disables expiry.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.order.Remove(el)
		delete(s.entries, id)
		return nil, nil
	}
	return entry.ctx, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, sc *models.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	if el, ok := s.entries[id]; ok {
		entry := el.Value.(*memoryEntry)
		entry.ctx = sc
		entry.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return nil
	}

	s.entries[id] = s.order.PushFront(&memoryEntry{id: id, ctx: sc, expiresAt: expiresAt})

	for s.order.Len() > s.maxEntries {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		evicted := oldest.Value.(*memoryEntry)
		delete(s.entries, evicted.id)
		slog.Debug("[SessionStore] Evicted session",
			slog.String("session_id", evicted.id))
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
