package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckinStore abstracts the persistence the check-in workflow needs.
// Entries are expected newest first from ListEntries.
type CheckinStore interface {
	AddEntry(e *EmotionalEntry) error
	ListEntries() ([]*EmotionalEntry, error)
}

// CheckinService scores raw check-ins into immutable entries and serves the
// derived analytics over the stored history. All derived values are
// recomputed in full from the history snapshot on every call.
type CheckinService struct {
	store       CheckinStore
	now         func() time.Time
	idGenerator func() string
}

func NewCheckinService(store CheckinStore) *CheckinService {
	return &CheckinService{store: store, now: time.Now, idGenerator: func() string { return newID(12) }}
}

func newID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// CreateEntry scores the check-in, stamps identity and time, persists the
// entry and returns it with the snapshot it was derived from.
func (s *CheckinService) CreateEntry(raw RawCheckIn, wearable *WearableSnapshot) (*EmotionalEntry, *EmotionalSnapshot, error) {
	snapshot := CalculateSnapshot(raw, wearable)
	now := s.now()

	date := raw.DateISO
	if date == "" {
		date = now.UTC().Format("2006-01-02")
	}
	if wearable != nil && wearable.LastSync == nil {
		sync := now.UnixMilli()
		wearable.LastSync = &sync
	}

	entry := &EmotionalEntry{
		ID:                         s.idGenerator(),
		Date:                       date,
		Sattva:                     snapshot.Sattva,
		Rajas:                      snapshot.Rajas,
		Tamas:                      snapshot.Tamas,
		BalanceIndex:               snapshot.BalanceIndex,
		Confidence:                 snapshot.Confidence,
		Reflection:                 raw.Reflection,
		DominantGuna:               snapshot.DominantGuna,
		RecommendedInterventionIDs: snapshot.RecommendedInterventionIDs,
		Metrics: Metrics{
			Clarity:      raw.Clarity,
			Peace:        raw.Peace,
			Energy:       raw.Energy,
			Restlessness: raw.Restlessness,
			Activity:     raw.Activity,
			Inertia:      raw.Inertia,
		},
		Wearable:  wearable,
		Timestamp: now.UnixMilli(),
	}

	if err := s.store.AddEntry(entry); err != nil {
		return nil, nil, err
	}
	return entry, &snapshot, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (s *CheckinService) Recent(limit int) ([]*EmotionalEntry, error) {
	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Latest returns the most recent entry, nil with no history.
func (s *CheckinService) Latest() (*EmotionalEntry, error) {
	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

// Trend computes the trailing trend window. days <= 0 defaults to 7.
func (s *CheckinService) Trend(days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 7
	}
	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	return ComputeTrend(entries, days, s.now()), nil
}

// Summary aggregates the full history into summary metrics.
func (s *CheckinService) Summary() (SummaryMetrics, error) {
	entries, err := s.store.ListEntries()
	if err != nil {
		return SummaryMetrics{}, err
	}
	return SummariseEntries(entries), nil
}
