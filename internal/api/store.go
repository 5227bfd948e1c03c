package api

import (
	"sync"

	"github.com/sattvalabs/triguna/internal/services"
)

// memoryStore keeps everything in process memory. It is the default store
// for development and tests; the SQLite store replaces it when a database
// path is configured.
type memoryStore struct {
	mu       sync.RWMutex
	entries  []*services.EmotionalEntry // newest first
	sessions []*services.InterventionSession
	messages []*services.ChatMessage // oldest first
	insights *services.ChatInsights
	prefs    *services.Preferences
}

func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{prefs: services.DefaultPreferences()}
}

func (s *memoryStore) AddEntry(e *services.EmotionalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]*services.EmotionalEntry{e}, s.entries...)
	return nil
}

func (s *memoryStore) ListEntries() ([]*services.EmotionalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.EmotionalEntry(nil), s.entries...), nil
}

func (s *memoryStore) AddSession(sess *services.InterventionSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
	return nil
}

func (s *memoryStore) ListSessions() ([]*services.InterventionSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.InterventionSession(nil), s.sessions...), nil
}

func (s *memoryStore) AddMessage(m *services.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return nil
}

func (s *memoryStore) ListMessages() ([]*services.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.ChatMessage(nil), s.messages...), nil
}

func (s *memoryStore) DeleteMessagesBefore(cutoff int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]*services.ChatMessage, 0, len(s.messages))
	removed := 0
	for _, m := range s.messages {
		if m.Timestamp < cutoff {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return removed, nil
}

func (s *memoryStore) SaveInsights(in *services.ChatInsights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = in
	return nil
}

func (s *memoryStore) GetInsights() (*services.ChatInsights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insights, nil
}

func (s *memoryStore) GetPreferences() (*services.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs == nil {
		return services.DefaultPreferences(), nil
	}
	copied := *s.prefs
	return &copied, nil
}

func (s *memoryStore) SavePreferences(p *services.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.prefs = &copied
	return nil
}

// WipeAll clears every user record but resets preferences to defaults
// rather than leaving them nil.
func (s *memoryStore) WipeAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.sessions = nil
	s.messages = nil
	s.insights = nil
	s.prefs = services.DefaultPreferences()
	return nil
}
