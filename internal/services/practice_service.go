package services

import "time"

// PracticeStore abstracts persistence for completed practice sessions.
type PracticeStore interface {
	AddSession(s *InterventionSession) error
	ListSessions() ([]*InterventionSession, error)
}

// PracticeService records finished guided practices and serves the weekly
// analytics over the session log.
type PracticeService struct {
	store       PracticeStore
	now         func() time.Time
	idGenerator func() string
}

func NewPracticeService(store PracticeStore) *PracticeService {
	return &PracticeService{store: store, now: time.Now, idGenerator: func() string { return newID(12) }}
}

// RecordSession persists one completed practice. Sessions referencing an id
// missing from the catalog are accepted; analytics tolerates them. A zero
// completedAt is stamped with the current time.
func (s *PracticeService) RecordSession(interventionID string, durationSeconds int, rating *int, completedAt int64) (*InterventionSession, error) {
	if interventionID == "" {
		return nil, NewInvalidError("interventionId required")
	}
	if durationSeconds < 0 {
		return nil, NewInvalidError("duration must not be negative")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, NewInvalidError("rating must be between 1 and 5")
	}
	if completedAt == 0 {
		completedAt = s.now().UnixMilli()
	}
	session := &InterventionSession{
		ID:             s.idGenerator(),
		InterventionID: interventionID,
		CompletedAt:    completedAt,
		Duration:       durationSeconds,
		Rating:         rating,
	}
	if err := s.store.AddSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Analytics aggregates the trailing window. windowDays <= 0 defaults to 7.
func (s *PracticeService) Analytics(windowDays int) (InterventionAnalytics, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		return InterventionAnalytics{}, err
	}
	return AnalyseInterventionSessions(sessions, windowDays, s.now()), nil
}
