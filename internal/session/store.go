package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"document-assistant/internal/models"
)

// Exchange records one question/answer turn of a session.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session holds everything known about one uploaded document. The chunk
// sequence is immutable after creation; retrieval over it is safe to run
// concurrently.
type Session struct {
	ID         string
	Filename   string
	UploadedAt time.Time
	Chunks     []models.Chunk
	Challenge  []models.ChallengeQuestion
	History    []Exchange
}

// Store is an in-memory session registry keyed by session id. Sessions are
// created on successful ingestion and destroyed explicitly; there is no
// background expiry. Accessors return snapshots taken under the store lock;
// all mutation goes through store methods, so callers may read a returned
// session while writers run concurrently.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session. An empty id gets a fresh UUID; callers that
// already allocated an id (for the upload directory) pass it in.
func (s *Store) Create(id, filename string, chunks []models.Chunk) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	sess := &Session{
		ID:         id,
		Filename:   filename,
		UploadedAt: time.Now(),
		Chunks:     chunks,
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	snap := *sess
	return &snap
}

// Get returns a snapshot of the session. Later writes through the store are
// not visible in it.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	snap := *sess
	return &snap, true
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// List returns snapshots of all sessions ordered by upload time.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		snap := *sess
		sessions = append(sessions, &snap)
	}
	sort.Slice(sessions, func(a, b int) bool {
		if sessions[a].UploadedAt.Equal(sessions[b].UploadedAt) {
			return sessions[a].ID < sessions[b].ID
		}
		return sessions[a].UploadedAt.Before(sessions[b].UploadedAt)
	})
	return sessions
}

// SetChallenge stores the generated challenge questions for a session.
func (s *Store) SetChallenge(id string, questions []models.ChallengeQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	sess.Challenge = questions
	return nil
}

// Challenge returns the stored challenge questions, if any were generated.
func (s *Store) Challenge(id string) ([]models.ChallengeQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Challenge == nil {
		return nil, false
	}
	return sess.Challenge, true
}

// AppendExchange records a question/answer turn in the session history.
func (s *Store) AppendExchange(id string, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	sess.History = append(sess.History, ex)
	return nil
}
