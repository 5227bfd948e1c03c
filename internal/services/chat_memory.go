package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ModerationSeverity is the three-tier safety classification of one message.
// Each message is classified independently; a prior crisis result does not
// carry over to later messages.
type ModerationSeverity string

const (
	SeveritySafe      ModerationSeverity = "safe"
	SeveritySensitive ModerationSeverity = "sensitive"
	SeverityCrisis    ModerationSeverity = "crisis"
)

// ModerationResult is the outcome of classifying one message. Only the
// severity and tags are forwarded to the chat transport; the full result is
// never persisted.
type ModerationResult struct {
	Severity ModerationSeverity `json:"severity"`
	Tags     []string           `json:"tags"`
	Matched  []string           `json:"matched,omitempty"`
}

type chatTheme struct {
	id       string
	label    string
	keywords []string
}

// themeMap drives theme extraction. Order matters twice: themes are checked
// in this order per message, and ties in the count ranking keep this order.
var themeMap = []chatTheme{
	{id: "overwhelm", label: "Overwhelm & Anxiety", keywords: []string{"stress", "anxious", "overwhelm", "panic", "worried", "burnout", "pressure"}},
	{id: "fatigue", label: "Fatigue & Low Energy", keywords: []string{"tired", "exhausted", "drained", "burnt out", "sleepy", "fatigue"}},
	{id: "anger", label: "Anger & Boundaries", keywords: []string{"angry", "frustrated", "irritated", "resent", "boundary", "rage"}},
	{id: "grief", label: "Sadness & Grief", keywords: []string{"sad", "grief", "loss", "lonely", "depressed", "down"}},
	{id: "guidance", label: "Clarity & Guidance", keywords: []string{"guidance", "help", "direction", "purpose", "decision", "choices"}},
	{id: "gratitude", label: "Calm & Gratitude", keywords: []string{"calm", "peaceful", "grateful", "thankful", "still", "grounded"}},
	{id: "rest", label: "Rest & Recovery", keywords: []string{"sleep", "rest", "recover", "reset", "recharge"}},
}

var crisisPatterns = []string{
	"suicide",
	"kill myself",
	"end it all",
	"can't go on",
	"cant go on",
	"hurt myself",
	"harm myself",
	"take my life",
	"i want to die",
	"i want to hurt myself",
	"ending my life",
	"self harm",
	"self-harm",
	"killing myself",
	"i might hurt someone",
	"hurt someone",
}

var sensitivePatterns = []string{
	"panic attack",
	"panic",
	"trauma",
	"abuse",
	"relapse",
	"addiction",
	"self harm",
	"self-harm",
	"cutting",
	"manic",
	"assault",
}

// phraseSet records matched keywords in first-match order.
type phraseSet struct {
	order []string
	seen  map[string]bool
}

func (p *phraseSet) add(phrase string) {
	if p.seen == nil {
		p.seen = map[string]bool{}
	}
	if !p.seen[phrase] {
		p.seen[phrase] = true
		p.order = append(p.order, phrase)
	}
}

// GenerateChatInsights derives the chat-memory summary from user-authored
// messages and the entry history. Per message, each theme counts at most
// once (the first keyword that matches wins), but one message can still
// feed several different themes. Entries are expected newest first; the
// three most recent become highlight lines.
func GenerateChatInsights(messages []*ChatMessage, entries []*EmotionalEntry, now time.Time) *ChatInsights {
	counts := make([]int, len(themeMap))
	phrases := make([]phraseSet, len(themeMap))

	for _, message := range messages {
		if message.Role != RoleUser {
			continue
		}
		content := strings.ToLower(message.Content)
		for i, theme := range themeMap {
			for _, keyword := range theme.keywords {
				if strings.Contains(content, keyword) {
					counts[i]++
					phrases[i].add(keyword)
					break
				}
			}
		}
	}

	ranked := make([]int, 0, len(themeMap))
	for i := range themeMap {
		if counts[i] > 0 {
			ranked = append(ranked, i)
		}
	}
	// Stable sort keeps theme-table order between equal counts.
	sort.SliceStable(ranked, func(i, j int) bool { return counts[ranked[i]] > counts[ranked[j]] })

	themes := make([]string, 0, 4)
	for _, idx := range ranked {
		if len(themes) == 4 {
			break
		}
		label := themeMap[idx].label
		if matched := phrases[idx].order; len(matched) > 0 {
			themes = append(themes, fmt.Sprintf("%s (%s)", label, strings.Join(matched, ", ")))
		} else {
			themes = append(themes, label)
		}
	}

	totalMentions := 0
	for _, idx := range ranked {
		totalMentions += counts[idx]
	}

	var summary string
	if totalMentions > 0 {
		topLabels := make([]string, 0, 3)
		for _, idx := range ranked {
			if len(topLabels) == 3 {
				break
			}
			topLabels = append(topLabels, themeMap[idx].label)
		}
		summary = fmt.Sprintf("Recent conversations touch on %s.", strings.Join(topLabels, ", "))
	} else {
		summary = "Themes are still emerging; invite the user to share what's most alive for them."
	}

	highlights := make([]string, 0, 3)
	for _, entry := range entries {
		if len(highlights) == 3 {
			break
		}
		highlights = append(highlights, formatHighlight(entry))
	}

	return &ChatInsights{
		Summary:     summary,
		Themes:      themes,
		Highlights:  highlights,
		LastUpdated: now.UnixMilli(),
	}
}

func formatHighlight(entry *EmotionalEntry) string {
	reflection := strings.TrimSpace(entry.Reflection)
	snippet := ""
	if reflection != "" {
		runes := []rune(reflection)
		ellipsis := ""
		if len(runes) > 120 {
			runes = runes[:120]
			ellipsis = "..."
		}
		snippet = fmt.Sprintf(" Reflection: %q.", string(runes)+ellipsis)
	}
	return fmt.Sprintf("On %s, %s was dominant with balance %.1f and confidence %s.%s",
		entry.Date, entry.DominantGuna, entry.BalanceIndex,
		strconv.FormatFloat(entry.Confidence, 'f', -1, 64), snippet)
}

// ClassifyModeration runs the two phrase lists in strict priority order:
// the crisis list is checked first and short-circuits the sensitive list,
// so a message holding phrases from both tiers always classifies as crisis.
func ClassifyModeration(text string) ModerationResult {
	lowered := strings.ToLower(text)

	var matchedCrisis []string
	for _, phrase := range crisisPatterns {
		if strings.Contains(lowered, phrase) {
			matchedCrisis = append(matchedCrisis, phrase)
		}
	}
	if len(matchedCrisis) > 0 {
		return ModerationResult{Severity: SeverityCrisis, Tags: []string{"crisis-support"}, Matched: matchedCrisis}
	}

	var matchedSensitive []string
	for _, phrase := range sensitivePatterns {
		if strings.Contains(lowered, phrase) {
			matchedSensitive = append(matchedSensitive, phrase)
		}
	}
	if len(matchedSensitive) > 0 {
		return ModerationResult{Severity: SeveritySensitive, Tags: []string{"sensitive-topic"}, Matched: matchedSensitive}
	}

	return ModerationResult{Severity: SeveritySafe, Tags: []string{}}
}
