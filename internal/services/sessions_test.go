package services

import (
	"testing"
	"time"
)

func sessionAt(id, interventionID string, completedAt time.Time, durationSeconds int) *InterventionSession {
	return &InterventionSession{
		ID:             id,
		InterventionID: interventionID,
		CompletedAt:    completedAt.UnixMilli(),
		Duration:       durationSeconds,
	}
}

func TestAnalyseSessionsEmpty(t *testing.T) {
	got := AnalyseInterventionSessions(nil, 7, time.Now())
	if got.CompletedThisWeek != 0 || got.LastSession != nil || got.TopGuna != "" {
		t.Fatalf("empty history should produce zero analytics: %+v", got)
	}
}

func TestAnalyseSessionsWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*InterventionSession{
		sessionAt("s1", "calming-breath", now.Add(-24*time.Hour), 180),
		sessionAt("s2", "calming-breath", now.Add(-48*time.Hour), 170),
		sessionAt("s3", "gratitude-reflection", now.Add(-72*time.Hour), 300),
		sessionAt("s4", "gentle-movement", now.Add(-20*24*time.Hour), 420),
	}

	got := AnalyseInterventionSessions(sessions, 7, now)
	if got.CompletedThisWeek != 3 {
		t.Fatalf("completed = %d, want 3", got.CompletedThisWeek)
	}
	// 650 total seconds rounds to 11 minutes.
	if got.TotalMinutesThisWeek != 11 {
		t.Fatalf("minutes = %d, want 11", got.TotalMinutesThisWeek)
	}
	if got.TopGuna != GunaRajas {
		t.Fatalf("top guna = %s, want rajas", got.TopGuna)
	}
	if got.TopType != TypeBreathing {
		t.Fatalf("top type = %s, want breathing", got.TopType)
	}
	if got.LastSession == nil || got.LastSession.ID != "s1" {
		t.Fatalf("last session should be the most recent in-window one: %+v", got.LastSession)
	}
	if got.LastSession.Definition == nil || got.LastSession.Definition.ID != "calming-breath" {
		t.Fatalf("last session missing its catalog definition: %+v", got.LastSession)
	}
}

func TestAnalyseSessionsOutOfWindowLast(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*InterventionSession{
		sessionAt("old1", "mindful-awareness", now.Add(-30*24*time.Hour), 420),
		sessionAt("old2", "calming-breath", now.Add(-40*24*time.Hour), 180),
	}

	got := AnalyseInterventionSessions(sessions, 7, now)
	if got.CompletedThisWeek != 0 || got.TotalMinutesThisWeek != 0 {
		t.Fatalf("stale sessions must not count toward the window: %+v", got)
	}
	if got.LastSession == nil || got.LastSession.ID != "old1" {
		t.Fatalf("last session should survive outside the window: %+v", got.LastSession)
	}
}

func TestAnalyseSessionsUnknownIntervention(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*InterventionSession{
		sessionAt("s1", "retired-practice", now.Add(-time.Hour), 120),
		sessionAt("s2", "calming-breath", now.Add(-2*time.Hour), 180),
	}

	got := AnalyseInterventionSessions(sessions, 7, now)
	if got.CompletedThisWeek != 2 {
		t.Fatalf("unknown ids still count as sessions: %+v", got)
	}
	if got.TotalMinutesThisWeek != 5 {
		t.Fatalf("minutes = %d, want 5", got.TotalMinutesThisWeek)
	}
	if got.TopGuna != GunaRajas || got.TopType != TypeBreathing {
		t.Fatalf("tallies should come from known definitions only: %+v", got)
	}
	if got.LastSession == nil || got.LastSession.Definition != nil {
		t.Fatalf("unknown intervention should join a nil definition: %+v", got.LastSession)
	}
}

func TestAnalyseSessionsTieKeepsFirstSeen(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*InterventionSession{
		sessionAt("s1", "gratitude-reflection", now.Add(-time.Hour), 300),
		sessionAt("s2", "energizing-breath", now.Add(-2*time.Hour), 240),
	}

	got := AnalyseInterventionSessions(sessions, 7, now)
	// sattva and tamas each appear once; first seen wins.
	if got.TopGuna != GunaSattva {
		t.Fatalf("top guna tie should keep first seen, got %s", got.TopGuna)
	}
}
