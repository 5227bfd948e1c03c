package services

import "time"

// ChatStore abstracts persistence for the companion conversation and its
// derived memory. Messages are expected oldest first; entries newest first.
type ChatStore interface {
	AddMessage(m *ChatMessage) error
	ListMessages() ([]*ChatMessage, error)
	DeleteMessagesBefore(cutoff int64) (int, error)
	ListEntries() ([]*EmotionalEntry, error)
	SaveInsights(in *ChatInsights) error
	GetInsights() (*ChatInsights, error)
	GetPreferences() (*Preferences, error)
}

// ChatService appends conversation turns, classifies user messages, and
// maintains the consent-gated chat memory.
type ChatService struct {
	store       ChatStore
	notifier    *SafetyNotifier
	now         func() time.Time
	idGenerator func() string
}

func NewChatService(store ChatStore, notifier *SafetyNotifier) *ChatService {
	return &ChatService{
		store:       store,
		notifier:    notifier,
		now:         time.Now,
		idGenerator: func() string { return newID(12) },
	}
}

// AppendMessage stores one turn and, for user-authored turns, classifies it.
// Assistant turns get an empty safe result. A crisis severity additionally
// runs the regex screens and forwards a webhook alert; neither can fail the
// append.
func (s *ChatService) AppendMessage(role, content string) (*ChatMessage, ModerationResult, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, ModerationResult{}, NewInvalidError("role must be user or assistant")
	}
	if content == "" {
		return nil, ModerationResult{}, NewInvalidError("content required")
	}

	message := &ChatMessage{
		ID:        s.idGenerator(),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.store.AddMessage(message); err != nil {
		return nil, ModerationResult{}, err
	}

	moderation := ModerationResult{Severity: SeveritySafe, Tags: []string{}}
	if role == RoleUser {
		moderation = ClassifyModeration(content)
		if moderation.Severity == SeverityCrisis && s.notifier != nil {
			check := CheckForCrisisLanguage(content)
			level := check.Level
			if level == "" {
				level = SafetyImmediate
			}
			s.notifier.Notify(level, check.Matches, content)
		}
	}
	return message, moderation, nil
}

// RefreshInsights regenerates the chat memory from the full message and
// entry history. Requires memory consent; without it the stored insights
// remain untouched.
func (s *ChatService) RefreshInsights() (*ChatInsights, error) {
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return nil, err
	}
	if prefs == nil || !prefs.ContextConsent {
		return nil, NewForbiddenError("memory consent not granted")
	}

	messages, err := s.store.ListMessages()
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}

	insights := GenerateChatInsights(messages, entries, s.now())
	if err := s.store.SaveInsights(insights); err != nil {
		return nil, err
	}
	return insights, nil
}

// Context assembles the consent-gated context bundle for the transport.
// Without consent it returns a bundle that only states the consent refusal.
func (s *ChatService) Context() (*ChatContext, error) {
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return nil, err
	}
	if prefs == nil || !prefs.ContextConsent {
		return &ChatContext{}, nil
	}

	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	insights, err := s.store.GetInsights()
	if err != nil {
		return nil, err
	}

	context := &ChatContext{ConsentGranted: true, ChatInsights: insights}

	if len(entries) > 0 {
		latest := entries[0]
		context.LatestEntry = &ContextEntry{
			Date:                     latest.Date,
			DominantGuna:             latest.DominantGuna,
			BalanceIndex:             latest.BalanceIndex,
			Confidence:               latest.Confidence,
			Reflection:               latest.Reflection,
			RecommendedInterventions: latest.RecommendedInterventionIDs,
			Metrics:                  &latest.Metrics,
		}
		context.RecommendedInterventions = latest.RecommendedInterventionIDs

		summary := SummariseEntries(entries)
		context.EmotionalSummary = &summary

		recent := entries
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, e := range recent {
			context.RecentEntries = append(context.RecentEntries, ContextEntry{
				Date:         e.Date,
				DominantGuna: e.DominantGuna,
				BalanceIndex: e.BalanceIndex,
				Reflection:   e.Reflection,
			})
			if e.Reflection != "" {
				context.RecentReflections = append(context.RecentReflections, e.Reflection)
			}
		}
	}

	return context, nil
}

// SystemInstruction renders the full prompt preamble for the transport,
// honoring consent and the supplied per-message moderation result.
func (s *ChatService) SystemInstruction(moderation *ModerationResult) (string, error) {
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return "", err
	}
	consent := prefs != nil && prefs.ContextConsent

	var context *ChatContext
	var insights *ChatInsights
	if consent {
		context, err = s.Context()
		if err != nil {
			return "", err
		}
		insights, err = s.store.GetInsights()
		if err != nil {
			return "", err
		}
	}
	return BuildSystemInstruction(context, insights, moderation, consent), nil
}

// PruneHistory deletes chat messages older than the retention preference.
// A non-positive retention keeps everything.
func (s *ChatService) PruneHistory() (int, error) {
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return 0, err
	}
	if prefs == nil || prefs.DataRetention <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -prefs.DataRetention).UnixMilli()
	return s.store.DeleteMessagesBefore(cutoff)
}
