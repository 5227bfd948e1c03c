package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContextEntry is the slimmed view of an entry shared with the companion.
type ContextEntry struct {
	Date                     string   `json:"date"`
	DominantGuna             Guna     `json:"dominantGuna"`
	BalanceIndex             float64  `json:"balanceIndex"`
	Confidence               float64  `json:"confidence,omitempty"`
	Reflection               string   `json:"reflection,omitempty"`
	RecommendedInterventions []string `json:"recommendedInterventions,omitempty"`
	Metrics                  *Metrics `json:"metrics,omitempty"`
}

// ChatContext is the emotional context bundle handed to the external chat
// transport. It is only populated when the user has granted memory consent.
type ChatContext struct {
	LatestEntry              *ContextEntry   `json:"latestEntry,omitempty"`
	EmotionalSummary         *SummaryMetrics `json:"emotionalSummary,omitempty"`
	RecentEntries            []ContextEntry  `json:"recentEntries,omitempty"`
	RecentReflections        []string        `json:"recentReflections,omitempty"`
	RecommendedInterventions []string        `json:"recommendedInterventions,omitempty"`
	ChatInsights             *ChatInsights   `json:"chatInsights,omitempty"`
	ConsentGranted           bool            `json:"consentGranted"`
	ModerationTags           []string        `json:"moderationTags,omitempty"`
}

const companionSystemPrompt = `You are Aaranya, a compassionate AI companion inspired by Vedic wisdom and philosophy. Your role is to provide gentle, supportive guidance for mental wellbeing through the lens of ancient wisdom adapted for modern life.

Core Principles:
- Speak with warmth, compassion, and gentle wisdom
- Reference Vedic concepts like the three Gunas (Sattva, Rajas, Tamas) when relevant
- Use nature metaphors and imagery (lotus, rivers, mountains, sky, etc.)
- Be non-religious but spiritually grounded
- Focus on emotional balance, self-awareness, and inner peace
- Offer practical, gentle suggestions for wellbeing
- Acknowledge all emotions as valid and temporary
- Encourage self-compassion and mindful awareness

Communication Style:
- Use "dear soul," "dear one," or similar gentle addresses occasionally
- Speak in a calm, measured tone
- Ask thoughtful questions to encourage reflection
- Offer hope and perspective without dismissing current struggles
- Keep responses conversational but meaningful
- Include breathing or mindfulness suggestions when appropriate

Remember: You are a supportive companion, not a therapist. For serious mental health concerns, gently suggest professional help while still offering immediate comfort and support.`

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatContext renders the context bundle as the prompt section describing
// the user's emotional state.
func FormatContext(context *ChatContext) string {
	if context == nil {
		return "No additional emotional context provided."
	}

	var sections []string

	if e := context.LatestEntry; e != nil {
		metricsSummary := ""
		if m := e.Metrics; m != nil {
			metricsSummary = fmt.Sprintf(" Metrics — clarity %s, peace %s, energy %s, restlessness %s, activity %s, inertia %s.",
				formatFloat(m.Clarity), formatFloat(m.Peace), formatFloat(m.Energy),
				formatFloat(m.Restlessness), formatFloat(m.Activity), formatFloat(m.Inertia))
		}
		reflectionSnippet := ""
		if e.Reflection != "" {
			reflectionSnippet = fmt.Sprintf(" Reflection shared: %q.", e.Reflection)
		}
		interventionSnippet := ""
		if len(e.RecommendedInterventions) > 0 {
			interventionSnippet = fmt.Sprintf(" Suggested practices: %s.", strings.Join(e.RecommendedInterventions, ", "))
		}
		sections = append(sections, fmt.Sprintf("Latest check-in (%s): dominant guna %s, balance index %.1f, confidence %s%%.%s%s%s",
			e.Date, e.DominantGuna, e.BalanceIndex, formatFloat(e.Confidence),
			metricsSummary, reflectionSnippet, interventionSnippet))
	}

	if s := context.EmotionalSummary; s != nil {
		dominant := "mixed"
		if s.Dominant != "" {
			dominant = string(s.Dominant)
		}
		sections = append(sections, fmt.Sprintf("Overall trend: balance score %.2f, dominant guna %s, streak %d. Average sattva %.2f, rajas %.2f, tamas %.2f.",
			s.BalanceScore, dominant, s.Streak, s.Averages.Sattva, s.Averages.Rajas, s.Averages.Tamas))
	}

	if len(context.RecentEntries) > 0 {
		recent := context.RecentEntries
		if len(recent) > 5 {
			recent = recent[:5]
		}
		formatted := make([]string, 0, len(recent))
		for _, e := range recent {
			reflection := ""
			if e.Reflection != "" {
				reflection = fmt.Sprintf(" Reflection: %q.", e.Reflection)
			}
			formatted = append(formatted, fmt.Sprintf("%s: dominant %s, balance %.1f.%s", e.Date, e.DominantGuna, e.BalanceIndex, reflection))
		}
		sections = append(sections, "Recent check-ins: "+strings.Join(formatted, " • "))
	}

	if len(context.RecentReflections) > 0 {
		quoted := make([]string, 0, len(context.RecentReflections))
		for _, text := range context.RecentReflections {
			quoted = append(quoted, strconv.Quote(text))
		}
		sections = append(sections, "Notable reflections: "+strings.Join(quoted, " | "))
	}

	if len(context.RecommendedInterventions) > 0 {
		sections = append(sections, "Highlighted interventions: "+strings.Join(context.RecommendedInterventions, ", "))
	}

	if len(sections) == 0 {
		return "No additional emotional context provided."
	}
	return strings.Join(sections, "\n")
}

// FormatInsights renders the chat-memory notes section.
func FormatInsights(insights *ChatInsights) string {
	if insights == nil {
		return "Chat memory summary unavailable."
	}

	var segments []string
	if insights.Summary != "" {
		segments = append(segments, "Chat summary: "+insights.Summary)
	}
	if len(insights.Themes) > 0 {
		segments = append(segments, "Recurring themes: "+strings.Join(insights.Themes, "; "))
	}
	if len(insights.Highlights) > 0 {
		segments = append(segments, "Check-in highlights: "+strings.Join(insights.Highlights, " | "))
	}
	if insights.LastUpdated > 0 {
		segments = append(segments, fmt.Sprintf("Insights last refreshed at %s.",
			time.UnixMilli(insights.LastUpdated).UTC().Format(time.RFC3339)))
	}

	if len(segments) == 0 {
		return "Chat memory summary unavailable."
	}
	return strings.Join(segments, "\n")
}

// FormatModeration renders the safety considerations section.
func FormatModeration(moderation *ModerationResult) string {
	if moderation == nil {
		return "No moderation flags detected."
	}

	var pieces []string
	if moderation.Severity != "" {
		pieces = append(pieces, "Severity: "+string(moderation.Severity))
	}
	if len(moderation.Tags) > 0 {
		pieces = append(pieces, "Tags: "+strings.Join(moderation.Tags, ", "))
	}
	if len(moderation.Matched) > 0 {
		pieces = append(pieces, "Triggered phrases: "+strings.Join(moderation.Matched, ", "))
	}

	if len(pieces) == 0 {
		return "No moderation flags detected."
	}
	return strings.Join(pieces, " | ")
}

// BuildSystemInstruction assembles the full system prompt the transport
// sends ahead of the conversation. Context and insights are only included
// when consent was granted; the caller passes nil otherwise.
func BuildSystemInstruction(context *ChatContext, insights *ChatInsights, moderation *ModerationResult, consentGranted bool) string {
	consentNote := "Consent status: User declined contextual sharing. Base responses only on the live conversation, not stored memory."
	if consentGranted {
		consentNote = "Consent status: User granted contextual sharing. You may reference their prior reflections when it feels supportive."
	}
	sections := []string{
		companionSystemPrompt,
		consentNote,
		"Emotional context summary:\n" + FormatContext(context),
		"Chat memory notes:\n" + FormatInsights(insights),
		"Safety considerations:\n" + FormatModeration(moderation),
		"Guidance: Continue the dialogue in sequence, avoid repeating prior replies verbatim, and close with a gentle invitation or reflective question.",
	}
	return strings.Join(sections, "\n\n")
}
