//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("TRIGUNA_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

// TestWellbeingJourneyIntegration walks the full loop against a running
// server: check in, read trend and summary, pick an intervention, log the
// practice, talk to the companion, grant consent, pull insights, export.
func TestWellbeingJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	var created struct {
		Entry struct {
			ID                         string   `json:"id"`
			DominantGuna               string   `json:"dominantGuna"`
			RecommendedInterventionIDs []string `json:"recommendedInterventionIds"`
		} `json:"entry"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/checkins", map[string]any{
		"clarity": 70, "peace": 65, "energy": 55,
		"restlessness": 30, "activity": 45, "inertia": 25,
		"reflection": "integration check-in",
	}, &created)
	if created.Entry.ID == "" || created.Entry.DominantGuna == "" {
		t.Fatalf("unexpected check-in response: %+v", created)
	}
	if len(created.Entry.RecommendedInterventionIDs) == 0 {
		t.Fatalf("expected recommendations on the entry")
	}

	var trend struct {
		Points []struct {
			Date string `json:"date"`
		} `json:"points"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/trend?days=7", nil, &trend)
	if len(trend.Points) == 0 {
		t.Fatalf("trend is empty after a check-in")
	}

	var summary struct {
		Streak   int    `json:"streak"`
		Dominant string `json:"dominant"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/summary", nil, &summary)
	if summary.Streak < 1 {
		t.Fatalf("summary streak = %d", summary.Streak)
	}

	recommended := created.Entry.RecommendedInterventionIDs[0]
	var detail struct {
		Intervention struct {
			ID            string `json:"id"`
			TotalDuration int    `json:"totalDuration"`
		} `json:"intervention"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/interventions/"+recommended, nil, &detail)
	if detail.Intervention.ID != recommended {
		t.Fatalf("catalog detail mismatch: %+v", detail)
	}

	var session struct {
		ID string `json:"id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/sessions", map[string]any{
		"interventionId": recommended,
		"duration":       detail.Intervention.TotalDuration,
		"rating":         5,
	}, &session)
	if session.ID == "" {
		t.Fatalf("session not recorded")
	}

	var analytics struct {
		CompletedThisWeek int `json:"completedThisWeek"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/analytics/practice", nil, &analytics)
	if analytics.CompletedThisWeek < 1 {
		t.Fatalf("analytics missed the session: %+v", analytics)
	}

	var posted struct {
		Moderation struct {
			Severity string `json:"severity"`
		} `json:"moderation"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/chat/messages", map[string]string{
		"role": "user", "content": "so much stress at work lately",
	}, &posted)
	if posted.Moderation.Severity != "safe" {
		t.Fatalf("moderation = %q", posted.Moderation.Severity)
	}

	doJSON(t, client, http.MethodPut, base+"/api/preferences", map[string]any{
		"theme": "light", "notifications": true,
		"dataRetention": 365, "contextConsent": true,
	}, nil)

	var insights struct {
		Themes []string `json:"themes"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/chat/insights", nil, &insights)
	if len(insights.Themes) == 0 {
		t.Fatalf("insights empty after consent")
	}

	var ticket struct {
		Token string `json:"token"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/export", nil, &ticket)
	if ticket.Token == "" {
		t.Fatalf("no export token issued")
	}

	var bundle struct {
		Entries  []json.RawMessage `json:"emotionalEntries"`
		Sessions []json.RawMessage `json:"interventionSessions"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/export?token="+ticket.Token, nil, &bundle)
	if len(bundle.Entries) == 0 || len(bundle.Sessions) == 0 {
		t.Fatalf("export bundle incomplete: %d entries, %d sessions", len(bundle.Entries), len(bundle.Sessions))
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
