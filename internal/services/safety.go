package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// SafetyLevel grades a crisis screen hit: immediate risk language versus
// language worth watching across the conversation.
type SafetyLevel string

const (
	SafetyImmediate SafetyLevel = "immediate"
	SafetyWatch     SafetyLevel = "watch"
)

// SafetyCheckResult reports whether a message tripped the crisis screens
// and which labelled patterns matched.
type SafetyCheckResult struct {
	Flagged bool        `json:"flagged"`
	Level   SafetyLevel `json:"level,omitempty"`
	Matches []string    `json:"matches"`
}

type safetyPattern struct {
	label   string
	pattern *regexp.Regexp
}

var immediateRiskPatterns = []safetyPattern{
	{"explicit-suicide-intent", regexp.MustCompile(`(?i)kill myself|end my life|take my life|suicide`)},
	{"self-harm-plan", regexp.MustCompile(`(?i)hurt myself|cut myself|slice my wrists|jump off`)},
	{"request-for-method", regexp.MustCompile(`(?i)how to die|best way to die|painless death`)},
	{"farewell-language", regexp.MustCompile(`(?i)goodbye forever|no reason to live|won't be here`)},
}

var watchlistPatterns = []safetyPattern{
	{"overwhelming-hopelessness", regexp.MustCompile(`(?i)can't go on|can't do this anymore|life is pointless`)},
	{"severe-depression", regexp.MustCompile(`(?i)severely depressed|feel empty all the time|constant darkness`)},
	{"self-harm-thought", regexp.MustCompile(`(?i)think about hurting myself|urge to self harm|urge to cut`)},
}

// CheckForCrisisLanguage runs the immediate-risk patterns first; any hit
// short-circuits the watchlist. Blank input is never flagged.
func CheckForCrisisLanguage(input string) SafetyCheckResult {
	text := strings.TrimSpace(input)
	if text == "" {
		return SafetyCheckResult{Matches: []string{}}
	}

	var immediate []string
	for _, p := range immediateRiskPatterns {
		if p.pattern.MatchString(text) {
			immediate = append(immediate, p.label)
		}
	}
	if len(immediate) > 0 {
		return SafetyCheckResult{Flagged: true, Level: SafetyImmediate, Matches: immediate}
	}

	var watch []string
	for _, p := range watchlistPatterns {
		if p.pattern.MatchString(text) {
			watch = append(watch, p.label)
		}
	}
	if len(watch) > 0 {
		return SafetyCheckResult{Flagged: true, Level: SafetyWatch, Matches: watch}
	}

	return SafetyCheckResult{Matches: []string{}}
}

const indiaHelplines = "• KIRAN (24/7 National Helpline): 1800-599-0019\n• iCall (TISS): 9152987821\n• AASRA: +91-9820466726\n• Snehi: +91-22-2772-6771"

// BuildHelplineResponse renders the supportive reply shown instead of a
// model response when a crisis screen fires.
func BuildHelplineResponse(level SafetyLevel) string {
	intro := "I'm hearing a lot of pain in what you shared. When things feel overwhelming, talking to someone live can help hold that weight with you."
	if level == SafetyImmediate {
		intro = "I'm concerned for your safety. When thoughts feel this heavy, reaching a human supporter right now can help keep you safe."
	}
	return strings.Join([]string{
		intro + "\n\nHere are free crisis lines in India:",
		indiaHelplines,
		"If you're in immediate danger, please contact local emergency services or someone nearby you trust.",
		"I'll stay here with you, but I want to make sure you're also supported by trained listeners.",
	}, "\n\n")
}

// SafetyNotifier forwards crisis screen hits to a configured webhook.
// Delivery is best effort: failures are logged, never surfaced to the user
// flow that triggered the alert.
type SafetyNotifier struct {
	webhookURL string
	client     *http.Client
	now        func() time.Time
}

func NewSafetyNotifier(webhookURL string) *SafetyNotifier {
	return &SafetyNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Notify posts the alert payload. A notifier with no webhook configured
// logs locally and drops the alert.
func (n *SafetyNotifier) Notify(level SafetyLevel, matches []string, message string) {
	payload := map[string]any{
		"level":     level,
		"matches":   matches,
		"message":   message,
		"timestamp": n.now().UTC().Format(time.RFC3339),
	}
	if n.webhookURL == "" {
		log.Printf("safety: alert detected but no webhook configured (level=%s matches=%v)", level, matches)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("safety: marshal alert: %v", err)
		return
	}
	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("safety: send alert: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("safety: alert webhook returned %s", resp.Status)
	}
}
