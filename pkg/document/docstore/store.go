// Package docstore holds processed uploads in process memory so that
// questions can be asked repeatedly without re-running extraction.
// Nothing here survives the process; there is no durable persistence.
package docstore

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iQuantC/docsight/pkg/document"
	"github.com/iQuantC/docsight/pkg/errx"
	"github.com/iQuantC/docsight/pkg/logx"
)

var (
	errorRegistry = errx.NewRegistry("DOCSTORE")

	ErrNotFound = errorRegistry.Register(
		"SESSION_NOT_FOUND",
		errx.TypeNotFound,
		http.StatusNotFound,
		"Document session not found or expired",
	)
)

// Session is one processed upload: the original bytes, the extraction
// result, and the rendered overlay. Immutable after Put.
type Session struct {
	ID          string
	Format      string
	Original    []byte
	Text        document.Text
	OverlayPNG  []byte
	ProcessedAt time.Time
}

// Store is a TTL-bounded in-memory session store, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores a session under a fresh ID and returns it.
func (s *Store) Put(session Session) *Session {
	session.ID = uuid.NewString()
	session.ProcessedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &session
	return &session
}

// Get returns a copy of the session for id, or a not-found error if it
// never existed or has expired. The slice contents are shared with the
// store and must be treated as read-only.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, errorRegistry.New(ErrNotFound).WithDetail("id", id)
	}

	out := *session
	return &out, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, session := range s.sessions {
		if !s.expired(session) {
			n++
		}
	}
	return n
}

func (s *Store) expired(session *Session) bool {
	return s.ttl > 0 && s.now().Sub(session.ProcessedAt) > s.ttl
}

// evict removes expired sessions and reports how many were dropped.
func (s *Store) evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// StartJanitor evicts expired sessions every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := s.evict(); dropped > 0 {
					logx.WithField("dropped", dropped).Debug("Evicted expired document sessions")
				}
			}
		}
	}()
}
