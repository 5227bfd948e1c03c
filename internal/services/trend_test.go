package services

import (
	"testing"
	"time"
)

func entryOn(date string, dominant Guna, sattva, rajas, tamas, balance float64, ts int64) *EmotionalEntry {
	return &EmotionalEntry{
		ID: "e-" + date, Date: date, DominantGuna: dominant,
		Sattva: sattva, Rajas: rajas, Tamas: tamas, BalanceIndex: balance,
		Timestamp: ts,
	}
}

func TestComputeTrendWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	entries := []*EmotionalEntry{
		entryOn("2025-06-14", GunaSattva, 50, 25, 25, 60, 3),
		entryOn("2025-06-01", GunaTamas, 20, 20, 60, 30, 1),
		entryOn("2025-06-12", GunaRajas, 25, 50, 25, 55, 2),
	}

	points := ComputeTrend(entries, 7, now)
	if len(points) != 2 {
		t.Fatalf("expected 2 points inside the window, got %d", len(points))
	}
	if points[0].Date != "2025-06-12" || points[1].Date != "2025-06-14" {
		t.Fatalf("points not ascending by date: %+v", points)
	}
	if points[0].Rajas != 50 {
		t.Fatalf("projection lost intensities: %+v", points[0])
	}
}

func TestComputeTrendSkipsBadDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	entries := []*EmotionalEntry{
		entryOn("not-a-date", GunaSattva, 50, 25, 25, 60, 2),
		entryOn("2025-06-14", GunaSattva, 50, 25, 25, 60, 1),
	}
	points := ComputeTrend(entries, 7, now)
	if len(points) != 1 || points[0].Date != "2025-06-14" {
		t.Fatalf("unparseable dates should be skipped: %+v", points)
	}
}

func TestDominantPatternStreak(t *testing.T) {
	// Newest first: sattva, sattva, sattva, rajas, sattva. The overall
	// dominant is sattva and the streak stops at the rajas entry even
	// though a fourth sattva day follows it.
	entries := []*EmotionalEntry{
		entryOn("2025-06-14", GunaSattva, 60, 20, 20, 70, 50),
		entryOn("2025-06-13", GunaSattva, 60, 20, 20, 70, 40),
		entryOn("2025-06-12", GunaSattva, 60, 20, 20, 70, 30),
		entryOn("2025-06-11", GunaRajas, 20, 60, 20, 40, 20),
		entryOn("2025-06-10", GunaSattva, 60, 20, 20, 70, 10),
	}

	pattern := ComputeDominantPattern(entries)
	if pattern.Dominant != GunaSattva {
		t.Fatalf("dominant = %s, want sattva", pattern.Dominant)
	}
	if pattern.Streak != 3 {
		t.Fatalf("streak = %d, want 3", pattern.Streak)
	}
	if pattern.Averages.Sattva != 52 || pattern.Averages.Rajas != 28 || pattern.Averages.Tamas != 20 {
		t.Fatalf("unexpected averages: %+v", pattern.Averages)
	}
}

func TestDominantPatternTieBreak(t *testing.T) {
	entries := []*EmotionalEntry{
		entryOn("2025-06-14", GunaRajas, 40, 40, 20, 60, 2),
		entryOn("2025-06-13", GunaSattva, 40, 40, 20, 60, 1),
	}
	// Averages tie sattva and rajas; precedence names sattva, so the streak
	// is zero because the newest entry is rajas-dominant.
	pattern := ComputeDominantPattern(entries)
	if pattern.Dominant != GunaSattva {
		t.Fatalf("dominant = %s, want sattva on tie", pattern.Dominant)
	}
	if pattern.Streak != 0 {
		t.Fatalf("streak = %d, want 0", pattern.Streak)
	}
}

func TestSummariseEntries(t *testing.T) {
	entries := []*EmotionalEntry{
		entryOn("2025-06-14", GunaSattva, 60, 20, 20, 70, 2),
		entryOn("2025-06-13", GunaSattva, 60, 20, 20, 50, 1),
	}
	summary := SummariseEntries(entries)
	if summary.BalanceScore != 60 {
		t.Fatalf("balance score = %v, want 60", summary.BalanceScore)
	}
	if summary.Dominant != GunaSattva || summary.Streak != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSummariseEntriesEmpty(t *testing.T) {
	summary := SummariseEntries(nil)
	if summary.Streak != 0 || summary.Dominant != "" || summary.BalanceScore != 0 {
		t.Fatalf("empty history should zero out: %+v", summary)
	}
	if summary.Averages != (GunaAverages{}) {
		t.Fatalf("empty history averages should be zero: %+v", summary.Averages)
	}
}
