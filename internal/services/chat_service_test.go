package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubChatStore struct {
	messages []*ChatMessage
	entries  []*EmotionalEntry
	insights *ChatInsights
	prefs    *Preferences
}

func (s *stubChatStore) AddMessage(m *ChatMessage) error {
	s.messages = append(s.messages, m)
	return nil
}

func (s *stubChatStore) ListMessages() ([]*ChatMessage, error) { return s.messages, nil }

func (s *stubChatStore) DeleteMessagesBefore(cutoff int64) (int, error) {
	kept := s.messages[:0]
	deleted := 0
	for _, m := range s.messages {
		if m.Timestamp < cutoff {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return deleted, nil
}

func (s *stubChatStore) ListEntries() ([]*EmotionalEntry, error) { return s.entries, nil }

func (s *stubChatStore) SaveInsights(in *ChatInsights) error {
	s.insights = in
	return nil
}

func (s *stubChatStore) GetInsights() (*ChatInsights, error)   { return s.insights, nil }
func (s *stubChatStore) GetPreferences() (*Preferences, error) { return s.prefs, nil }

func newTestChatService(store *stubChatStore) *ChatService {
	svc := NewChatService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAppendMessageValidation(t *testing.T) {
	svc := newTestChatService(&stubChatStore{})
	if _, _, err := svc.AppendMessage("system", "hello"); err == nil {
		t.Fatalf("unknown role should be rejected")
	}
	if _, _, err := svc.AppendMessage(RoleUser, ""); err == nil {
		t.Fatalf("empty content should be rejected")
	}
}

func TestAppendMessageClassifiesUserTurns(t *testing.T) {
	store := &stubChatStore{}
	svc := newTestChatService(store)

	message, moderation, err := svc.AppendMessage(RoleUser, "I had a panic attack at work today")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if moderation.Severity != SeveritySensitive {
		t.Fatalf("severity = %s, want sensitive", moderation.Severity)
	}
	if message.ID == "" || message.Timestamp == 0 {
		t.Fatalf("message not stamped: %+v", message)
	}
	if len(store.messages) != 1 {
		t.Fatalf("message not persisted")
	}

	_, moderation, err = svc.AppendMessage(RoleAssistant, "That sounds really difficult.")
	if err != nil {
		t.Fatalf("AppendMessage assistant: %v", err)
	}
	if moderation.Severity != SeveritySafe {
		t.Fatalf("assistant turns should classify safe, got %s", moderation.Severity)
	}
}

func TestAppendMessageCrisisNotifies(t *testing.T) {
	alerts := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		alerts <- r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := &stubChatStore{}
	svc := NewChatService(store, NewSafetyNotifier(srv.URL))

	_, moderation, err := svc.AppendMessage(RoleUser, "I want to kill myself")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if moderation.Severity != SeverityCrisis {
		t.Fatalf("severity = %s, want crisis", moderation.Severity)
	}
	select {
	case <-alerts:
	case <-time.After(2 * time.Second):
		t.Fatalf("webhook alert never arrived")
	}
	if len(store.messages) != 1 {
		t.Fatalf("crisis message should still be persisted")
	}
}

func TestRefreshInsightsConsent(t *testing.T) {
	store := &stubChatStore{prefs: &Preferences{DataRetention: 365}}
	svc := newTestChatService(store)

	_, err := svc.RefreshInsights()
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorForbidden {
		t.Fatalf("expected forbidden without consent, got %v", err)
	}
	if store.insights != nil {
		t.Fatalf("insights must stay untouched without consent")
	}

	store.prefs.ContextConsent = true
	store.messages = []*ChatMessage{
		{ID: "m1", Role: RoleUser, Content: "so much stress lately", Timestamp: 1},
	}
	insights, err := svc.RefreshInsights()
	if err != nil {
		t.Fatalf("RefreshInsights: %v", err)
	}
	if len(insights.Themes) == 0 || store.insights != insights {
		t.Fatalf("insights not generated and saved: %+v", insights)
	}
}

func TestContextConsentGate(t *testing.T) {
	store := &stubChatStore{prefs: &Preferences{}}
	svc := newTestChatService(store)

	context, err := svc.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if context.ConsentGranted || context.LatestEntry != nil {
		t.Fatalf("without consent the bundle must be empty: %+v", context)
	}
}

func TestContextBundle(t *testing.T) {
	entries := []*EmotionalEntry{
		{ID: "e1", Date: "2025-06-14", DominantGuna: GunaSattva, Sattva: 60, Rajas: 20, Tamas: 20,
			BalanceIndex: 70, Confidence: 76, Reflection: "calm morning",
			RecommendedInterventionIDs: []string{"gratitude-reflection"}, Timestamp: 2},
		{ID: "e2", Date: "2025-06-13", DominantGuna: GunaRajas, Sattva: 20, Rajas: 60, Tamas: 20,
			BalanceIndex: 40, Confidence: 60, Timestamp: 1},
	}
	store := &stubChatStore{
		prefs:    &Preferences{ContextConsent: true},
		entries:  entries,
		insights: &ChatInsights{Summary: "themes"},
	}
	svc := newTestChatService(store)

	context, err := svc.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if !context.ConsentGranted {
		t.Fatalf("consent flag not set")
	}
	if context.LatestEntry == nil || context.LatestEntry.Date != "2025-06-14" {
		t.Fatalf("latest entry wrong: %+v", context.LatestEntry)
	}
	if len(context.RecentEntries) != 2 {
		t.Fatalf("recent entries = %d, want 2", len(context.RecentEntries))
	}
	if len(context.RecentReflections) != 1 || context.RecentReflections[0] != "calm morning" {
		t.Fatalf("reflections = %v", context.RecentReflections)
	}
	if context.EmotionalSummary == nil || context.EmotionalSummary.Dominant != GunaSattva {
		t.Fatalf("summary missing: %+v", context.EmotionalSummary)
	}
	if context.ChatInsights == nil || context.ChatInsights.Summary != "themes" {
		t.Fatalf("insights not attached")
	}
	if len(context.RecommendedInterventions) != 1 {
		t.Fatalf("recommendations not lifted from latest entry")
	}
}

func TestSystemInstructionHonorsConsent(t *testing.T) {
	store := &stubChatStore{prefs: &Preferences{}}
	svc := newTestChatService(store)

	prompt, err := svc.SystemInstruction(nil)
	if err != nil {
		t.Fatalf("SystemInstruction: %v", err)
	}
	if !strings.Contains(prompt, "User declined contextual sharing") {
		t.Fatalf("declined note missing")
	}

	store.prefs.ContextConsent = true
	store.entries = []*EmotionalEntry{
		{ID: "e1", Date: "2025-06-14", DominantGuna: GunaSattva, BalanceIndex: 70, Confidence: 76, Timestamp: 1},
	}
	prompt, err = svc.SystemInstruction(&ModerationResult{Severity: SeveritySafe})
	if err != nil {
		t.Fatalf("SystemInstruction with consent: %v", err)
	}
	if !strings.Contains(prompt, "User granted contextual sharing") {
		t.Fatalf("granted note missing")
	}
	if !strings.Contains(prompt, "Latest check-in (2025-06-14)") {
		t.Fatalf("context section missing: %s", prompt)
	}
}

func TestPruneHistory(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	store := &stubChatStore{
		prefs: &Preferences{DataRetention: 30},
		messages: []*ChatMessage{
			{ID: "old", Role: RoleUser, Content: "hello", Timestamp: now.AddDate(0, 0, -40).UnixMilli()},
			{ID: "new", Role: RoleUser, Content: "hello again", Timestamp: now.AddDate(0, 0, -5).UnixMilli()},
		},
	}
	svc := newTestChatService(store)

	deleted, err := svc.PruneHistory()
	if err != nil {
		t.Fatalf("PruneHistory: %v", err)
	}
	if deleted != 1 || len(store.messages) != 1 || store.messages[0].ID != "new" {
		t.Fatalf("prune kept %d deleted %d", len(store.messages), deleted)
	}
}

func TestPruneHistoryDisabled(t *testing.T) {
	store := &stubChatStore{
		prefs: &Preferences{DataRetention: 0},
		messages: []*ChatMessage{
			{ID: "ancient", Role: RoleUser, Content: "hello", Timestamp: 1},
		},
	}
	svc := newTestChatService(store)

	deleted, err := svc.PruneHistory()
	if err != nil || deleted != 0 || len(store.messages) != 1 {
		t.Fatalf("non-positive retention must keep everything: deleted=%d err=%v", deleted, err)
	}
}
