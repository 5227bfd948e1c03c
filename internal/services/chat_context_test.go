package services

import (
	"strings"
	"testing"
)

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "No additional emotional context provided." {
		t.Fatalf("nil context: %q", got)
	}
	if got := FormatContext(&ChatContext{ConsentGranted: true}); got != "No additional emotional context provided." {
		t.Fatalf("empty context: %q", got)
	}
}

func TestFormatContextSections(t *testing.T) {
	context := &ChatContext{
		LatestEntry: &ContextEntry{
			Date:                     "2025-06-14",
			DominantGuna:             GunaSattva,
			BalanceIndex:             62.5,
			Confidence:               76,
			Reflection:               "Settled after a long walk.",
			RecommendedInterventions: []string{"gratitude-reflection", "mindful-awareness"},
			Metrics:                  &Metrics{Clarity: 70, Peace: 65, Energy: 55, Restlessness: 30, Activity: 45, Inertia: 25},
		},
		EmotionalSummary: &SummaryMetrics{
			Streak: 2, Dominant: GunaSattva, BalanceScore: 58.25,
			Averages: GunaAverages{Sattva: 52, Rajas: 28, Tamas: 20},
		},
		RecentEntries: []ContextEntry{
			{Date: "2025-06-13", DominantGuna: GunaRajas, BalanceIndex: 41},
		},
		RecentReflections:        []string{"Felt rushed all day."},
		RecommendedInterventions: []string{"calming-breath"},
	}

	got := FormatContext(context)
	for _, fragment := range []string{
		"Latest check-in (2025-06-14): dominant guna sattva, balance index 62.5, confidence 76%.",
		"Metrics — clarity 70, peace 65, energy 55, restlessness 30, activity 45, inertia 25.",
		`Reflection shared: "Settled after a long walk.".`,
		"Suggested practices: gratitude-reflection, mindful-awareness.",
		"Overall trend: balance score 58.25, dominant guna sattva, streak 2.",
		"Recent check-ins: 2025-06-13: dominant rajas, balance 41.0.",
		`Notable reflections: "Felt rushed all day."`,
		"Highlighted interventions: calming-breath",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("missing fragment %q in:\n%s", fragment, got)
		}
	}
}

func TestFormatContextCapsRecentEntries(t *testing.T) {
	entries := make([]ContextEntry, 8)
	for i := range entries {
		entries[i] = ContextEntry{Date: "2025-06-01", DominantGuna: GunaTamas, BalanceIndex: 30}
	}
	got := FormatContext(&ChatContext{RecentEntries: entries})
	if n := strings.Count(got, "dominant tamas"); n != 5 {
		t.Fatalf("recent entries should cap at 5, rendered %d", n)
	}
}

func TestFormatInsights(t *testing.T) {
	if got := FormatInsights(nil); got != "Chat memory summary unavailable." {
		t.Fatalf("nil insights: %q", got)
	}

	insights := &ChatInsights{
		Summary:     "Recent conversations touch on Overwhelm & Anxiety.",
		Themes:      []string{"Overwhelm & Anxiety (stress)"},
		Highlights:  []string{"On 2025-06-14, sattva was dominant with balance 62.5 and confidence 76."},
		LastUpdated: 1749902400000, // 2025-06-14T12:00:00Z
	}
	got := FormatInsights(insights)
	for _, fragment := range []string{
		"Chat summary: Recent conversations touch on",
		"Recurring themes: Overwhelm & Anxiety (stress)",
		"Check-in highlights: On 2025-06-14",
		"Insights last refreshed at 2025-06-14T12:00:00Z.",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("missing fragment %q in:\n%s", fragment, got)
		}
	}
}

func TestFormatModeration(t *testing.T) {
	if got := FormatModeration(nil); got != "No moderation flags detected." {
		t.Fatalf("nil moderation: %q", got)
	}
	got := FormatModeration(&ModerationResult{
		Severity: SeverityCrisis,
		Tags:     []string{"crisis-support"},
		Matched:  []string{"kill myself"},
	})
	want := "Severity: crisis | Tags: crisis-support | Triggered phrases: kill myself"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildSystemInstruction(t *testing.T) {
	withConsent := BuildSystemInstruction(&ChatContext{ConsentGranted: true}, nil, nil, true)
	if !strings.Contains(withConsent, "You are Aaranya") {
		t.Fatalf("persona prompt missing")
	}
	if !strings.Contains(withConsent, "User granted contextual sharing") {
		t.Fatalf("consent note missing: %s", withConsent)
	}
	withoutConsent := BuildSystemInstruction(nil, nil, nil, false)
	if !strings.Contains(withoutConsent, "User declined contextual sharing") {
		t.Fatalf("declined note missing")
	}
	for _, heading := range []string{"Emotional context summary:", "Chat memory notes:", "Safety considerations:", "Guidance:"} {
		if !strings.Contains(withoutConsent, heading) {
			t.Fatalf("missing section heading %q", heading)
		}
	}
}
