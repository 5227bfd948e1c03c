package services

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ExportStore abstracts the reads behind a full data export plus the bulk
// wipe that is the only way user data is ever deleted.
type ExportStore interface {
	ListEntries() ([]*EmotionalEntry, error)
	ListSessions() ([]*InterventionSession, error)
	ListMessages() ([]*ChatMessage, error)
	GetInsights() (*ChatInsights, error)
	GetPreferences() (*Preferences, error)
	WipeAll() error
}

// ExportBundle is everything the app holds about the user, as one JSON
// document for download or migration to another device.
type ExportBundle struct {
	GeneratedAt string                 `json:"generatedAt"`
	Entries     []*EmotionalEntry      `json:"emotionalEntries"`
	Sessions    []*InterventionSession `json:"interventionSessions"`
	Messages    []*ChatMessage         `json:"chatHistory"`
	Insights    *ChatInsights          `json:"chatInsights,omitempty"`
	Preferences *Preferences           `json:"preferences,omitempty"`
}

type exportClaims struct {
	JobID string `json:"job_id"`
	jwt.RegisteredClaims
}

// ExportService gates data exports behind short-lived signed tokens so a
// download link shared by accident stops working quickly.
type ExportService struct {
	store       ExportStore
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	idGenerator func() string
}

func NewExportService(store ExportStore, secret []byte, ttl time.Duration) *ExportService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ExportService{
		store:       store,
		secret:      secret,
		ttl:         ttl,
		now:         time.Now,
		idGenerator: func() string { return newID(16) },
	}
}

// ExportTicket is the response to an export request: a bearer token for the
// download plus its expiry.
type ExportTicket struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateTicket issues a fresh signed export token.
func (s *ExportService) CreateTicket() (*ExportTicket, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := exportClaims{
		JobID: s.idGenerator(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "data-export",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &ExportTicket{Token: token, ExpiresAt: expiresAt}, nil
}

// Export validates the token and assembles the bundle. Expired or malformed
// tokens are rejected as forbidden.
func (s *ExportService) Export(token string) (*ExportBundle, error) {
	parsed, err := jwt.ParseWithClaims(token, &exportClaims{},
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, NewForbiddenError("invalid or expired export token")
	}
	claims, ok := parsed.Claims.(*exportClaims)
	if !ok || claims.Subject != "data-export" {
		return nil, NewForbiddenError("invalid or expired export token")
	}

	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessages()
	if err != nil {
		return nil, err
	}
	insights, err := s.store.GetInsights()
	if err != nil {
		return nil, err
	}
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return nil, err
	}

	return &ExportBundle{
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Entries:     entries,
		Sessions:    sessions,
		Messages:    messages,
		Insights:    insights,
		Preferences: prefs,
	}, nil
}

// Wipe removes all user data. Irreversible; the HTTP layer requires an
// explicit confirmation parameter before calling this.
func (s *ExportService) Wipe() error {
	if s.store == nil {
		return errors.New("no store configured")
	}
	return s.store.WipeAll()
}
