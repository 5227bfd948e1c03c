package services

import (
	"sort"
	"time"
)

// SessionRecord is a completed session joined with its catalog definition.
// Definition is nil when the session references an id no longer (or never)
// in the catalog.
type SessionRecord struct {
	InterventionSession
	Definition *InterventionDefinition `json:"definition,omitempty"`
}

// InterventionAnalytics aggregates the trailing practice window. LastSession
// is always the most recent session overall, even when it falls outside the
// window and every count is zero.
type InterventionAnalytics struct {
	CompletedThisWeek    int              `json:"completedThisWeek"`
	TotalMinutesThisWeek int              `json:"totalMinutesThisWeek"`
	TopGuna              Guna             `json:"topGuna,omitempty"`
	TopType              InterventionType `json:"topType,omitempty"`
	LastSession          *SessionRecord   `json:"lastSession,omitempty"`
}

// orderedTally counts occurrences while remembering first-seen order, so
// that Top is deterministic on ties.
type orderedTally struct {
	order  []string
	counts map[string]int
}

func newOrderedTally() *orderedTally {
	return &orderedTally{counts: map[string]int{}}
}

func (t *orderedTally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// top returns the first-seen key with the highest count, "" when empty.
func (t *orderedTally) top() string {
	var result string
	highest := -1
	for _, key := range t.order {
		if t.counts[key] > highest {
			result = key
			highest = t.counts[key]
		}
	}
	return result
}

func joinDefinition(s *InterventionSession) *SessionRecord {
	if s == nil {
		return nil
	}
	return &SessionRecord{InterventionSession: *s, Definition: GetInterventionDefinition(s.InterventionID)}
}

// AnalyseInterventionSessions computes the per-window practice summary.
// Sessions whose intervention id is unknown still count toward totals and
// minutes but contribute nothing to the guna/type tallies. Tolerant by
// design: partially invalid history degrades the tallies, never errors.
func AnalyseInterventionSessions(sessions []*InterventionSession, windowDays int, now time.Time) InterventionAnalytics {
	if len(sessions) == 0 {
		return InterventionAnalytics{}
	}

	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour).UnixMilli()
	recent := make([]*InterventionSession, 0, len(sessions))
	for _, s := range sessions {
		if s.CompletedAt >= cutoff {
			recent = append(recent, s)
		}
	}

	if len(recent) == 0 {
		sorted := make([]*InterventionSession, len(sessions))
		copy(sorted, sessions)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CompletedAt > sorted[j].CompletedAt })
		return InterventionAnalytics{LastSession: joinDefinition(sorted[0])}
	}

	byGuna := newOrderedTally()
	byType := newOrderedTally()
	totalSeconds := 0
	for _, s := range recent {
		totalSeconds += s.Duration
		if def := GetInterventionDefinition(s.InterventionID); def != nil {
			byGuna.add(string(def.Guna))
			byType.add(string(def.Type))
		}
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CompletedAt > recent[j].CompletedAt })

	return InterventionAnalytics{
		CompletedThisWeek:    len(recent),
		TotalMinutesThisWeek: (totalSeconds + 30) / 60,
		TopGuna:              Guna(byGuna.top()),
		TopType:              InterventionType(byType.top()),
		LastSession:          joinDefinition(recent[0]),
	}
}
