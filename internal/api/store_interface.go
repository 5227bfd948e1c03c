package api

import "github.com/sattvalabs/triguna/internal/services"

// Store is the persistence port the HTTP layer wires into the services.
// ListEntries returns newest first; ListMessages oldest first.
type Store interface {
	AddEntry(e *services.EmotionalEntry) error
	ListEntries() ([]*services.EmotionalEntry, error)

	AddSession(s *services.InterventionSession) error
	ListSessions() ([]*services.InterventionSession, error)

	AddMessage(m *services.ChatMessage) error
	ListMessages() ([]*services.ChatMessage, error)
	DeleteMessagesBefore(cutoff int64) (int, error)

	SaveInsights(in *services.ChatInsights) error
	GetInsights() (*services.ChatInsights, error)

	GetPreferences() (*services.Preferences, error)
	SavePreferences(p *services.Preferences) error

	WipeAll() error
}

var _ Store = (*memoryStore)(nil)
