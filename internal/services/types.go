package services

// Guna is one of the three emotional intensity axes derived from a check-in.
// The three values are co-present; an entry always carries all three
// intensities plus the single dominant axis.
type Guna string

const (
	GunaSattva Guna = "sattva"
	GunaRajas  Guna = "rajas"
	GunaTamas  Guna = "tamas"
)

// Metrics holds the six raw self-report sliders as submitted, each on a
// 0–100 scale. They are stored alongside the derived snapshot so past
// entries can be re-examined without re-asking the user.
type Metrics struct {
	Clarity      float64 `json:"clarity"`
	Peace        float64 `json:"peace"`
	Energy       float64 `json:"energy"`
	Restlessness float64 `json:"restlessness"`
	Activity     float64 `json:"activity"`
	Inertia      float64 `json:"inertia"`
}

// WearableSnapshot carries optional wearable signals attached to a check-in.
// Every field is a pointer: the confidence bonus cares about a signal being
// present at all, not about its value, so absence and zero must differ.
type WearableSnapshot struct {
	HRV            *float64 `json:"hrv,omitempty"`
	SleepQuality   *float64 `json:"sleepQuality,omitempty"`
	ActivityLoad   *float64 `json:"activityLoad,omitempty"`
	BreathRate     *float64 `json:"breathRate,omitempty"`
	ReadinessScore *float64 `json:"readinessScore,omitempty"`
	LastSync       *int64   `json:"lastSync,omitempty"`
}

// EmotionalEntry is the persisted record of one scored check-in. Created
// once, never mutated, removed only by a bulk data wipe.
type EmotionalEntry struct {
	ID                         string            `json:"id"`
	Date                       string            `json:"date"` // YYYY-MM-DD
	Sattva                     float64           `json:"sattva"`
	Rajas                      float64           `json:"rajas"`
	Tamas                      float64           `json:"tamas"`
	BalanceIndex               float64           `json:"balanceIndex"`
	Confidence                 float64           `json:"confidence"`
	Reflection                 string            `json:"reflection"`
	DominantGuna               Guna              `json:"dominantGuna"`
	RecommendedInterventionIDs []string          `json:"recommendedInterventionIds"`
	Metrics                    Metrics           `json:"metrics"`
	Wearable                   *WearableSnapshot `json:"wearable,omitempty"`
	Timestamp                  int64             `json:"timestamp"` // unix millis
}

// ChatMessage is one turn of the companion conversation.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatInsights is the derived chat-memory summary. Recomputed from the full
// message and entry history; never incrementally updated.
type ChatInsights struct {
	Summary     string   `json:"summary,omitempty"`
	Themes      []string `json:"themes,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	LastUpdated int64    `json:"lastUpdated,omitempty"`
}

// InterventionSession records one completed guided practice.
type InterventionSession struct {
	ID             string `json:"id"`
	InterventionID string `json:"interventionId"`
	CompletedAt    int64  `json:"completedAt"` // unix millis
	Duration       int    `json:"duration"`    // seconds actually practised
	Rating         *int   `json:"rating,omitempty"`
}

// Preferences are the user's local app settings that the engine consults:
// memory consent gates insight generation and context sharing, and the
// retention window bounds how long chat history is kept.
type Preferences struct {
	Theme          string `json:"theme"`
	Notifications  bool   `json:"notifications"`
	DataRetention  int    `json:"dataRetention"` // days of chat history to keep
	ContextConsent bool   `json:"contextConsent"`
}

// DefaultPreferences mirrors the first-run settings of the app.
func DefaultPreferences() *Preferences {
	return &Preferences{Theme: "light", Notifications: true, DataRetention: 365}
}
