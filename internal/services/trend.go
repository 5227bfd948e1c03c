package services

import (
	"sort"
	"time"
)

// TrendPoint is the per-entry projection used by trend charts.
type TrendPoint struct {
	Date   string  `json:"date"`
	Sattva float64 `json:"sattva"`
	Rajas  float64 `json:"rajas"`
	Tamas  float64 `json:"tamas"`
}

// GunaAverages are per-guna means across a set of entries.
type GunaAverages struct {
	Sattva float64 `json:"sattva"`
	Rajas  float64 `json:"rajas"`
	Tamas  float64 `json:"tamas"`
}

// DominantPattern summarises which guna leads across the history.
// Dominant is empty when there are no entries.
type DominantPattern struct {
	Dominant Guna         `json:"dominant,omitempty"`
	Streak   int          `json:"streak"`
	Averages GunaAverages `json:"averages"`
}

// SummaryMetrics extends the dominant pattern with the mean balance index.
type SummaryMetrics struct {
	Streak       int          `json:"streak"`
	Dominant     Guna         `json:"dominant,omitempty"`
	Averages     GunaAverages `json:"averages"`
	BalanceScore float64      `json:"balanceScore"`
}

func entryDay(e *EmotionalEntry) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ComputeTrend projects entries within the trailing day window onto trend
// points, oldest first. Entries with unparseable dates are skipped. The
// result is recomputed in full on every call; nothing is cached.
func ComputeTrend(entries []*EmotionalEntry, days int, now time.Time) []TrendPoint {
	sorted := make([]*EmotionalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, iok := entryDay(sorted[i])
		dj, jok := entryDay(sorted[j])
		if !iok || !jok {
			return jok
		}
		return di.Before(dj)
	})

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	points := make([]TrendPoint, 0, len(sorted))
	for _, e := range sorted {
		d, ok := entryDay(e)
		if !ok || d.Before(cutoff) {
			continue
		}
		points = append(points, TrendPoint{Date: e.Date, Sattva: e.Sattva, Rajas: e.Rajas, Tamas: e.Tamas})
	}
	return points
}

// ComputeDominantPattern averages each guna across all entries, resolves the
// overall dominant with the same sattva→rajas→tamas precedence as the
// scorer, and counts the streak: consecutive entries from the most recent
// whose dominant guna equals the overall dominant. The streak is a prefix
// run, not a total count; it stops at the first mismatch.
func ComputeDominantPattern(entries []*EmotionalEntry) DominantPattern {
	if len(entries) == 0 {
		return DominantPattern{}
	}

	var totals GunaAverages
	for _, e := range entries {
		totals.Sattva += e.Sattva
		totals.Rajas += e.Rajas
		totals.Tamas += e.Tamas
	}
	n := float64(len(entries))
	averages := GunaAverages{
		Sattva: round2(totals.Sattva / n),
		Rajas:  round2(totals.Rajas / n),
		Tamas:  round2(totals.Tamas / n),
	}

	dominant := dominantOf(averages.Sattva, averages.Rajas, averages.Tamas)

	sorted := make([]*EmotionalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })

	streak := 0
	for _, e := range sorted {
		if e.DominantGuna != dominant {
			break
		}
		streak++
	}

	return DominantPattern{Dominant: dominant, Streak: streak, Averages: averages}
}

// SummariseEntries wraps ComputeDominantPattern and adds the mean balance
// index, rounded to two decimals, or 0 with no entries.
func SummariseEntries(entries []*EmotionalEntry) SummaryMetrics {
	pattern := ComputeDominantPattern(entries)
	var balanceScore float64
	if len(entries) > 0 {
		var sum float64
		for _, e := range entries {
			sum += e.BalanceIndex
		}
		balanceScore = round2(sum / float64(len(entries)))
	}
	return SummaryMetrics{
		Streak:       pattern.Streak,
		Dominant:     pattern.Dominant,
		Averages:     pattern.Averages,
		BalanceScore: balanceScore,
	}
}
