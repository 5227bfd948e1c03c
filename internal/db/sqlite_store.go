package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sattvalabs/triguna/internal/api"
	"github.com/sattvalabs/triguna/internal/services"
)

// SQLiteStore persists the engine's state in a local SQLite file. Free-text
// columns go through the cipher; numeric analytics columns stay queryable.
type SQLiteStore struct {
	db     *sql.DB
	cipher *Cipher
}

func NewSQLiteStore(db *sql.DB, cipher *Cipher) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, cipher: cipher}, nil
}

func NewStore(db *sql.DB, cipher *Cipher) (api.Store, error) {
	return NewSQLiteStore(db, cipher)
}

var _ api.Store = (*SQLiteStore)(nil)

func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeStrings(ns sql.NullString) []string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode string list: %v", err)
		return nil
	}
	return out
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (s *SQLiteStore) AddEntry(e *services.EmotionalEntry) error {
	reflection, err := s.cipher.Seal(e.Reflection)
	if err != nil {
		return fmt.Errorf("seal reflection: %w", err)
	}
	recommended, err := encodeJSON(e.RecommendedInterventionIDs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	metrics, err := json.Marshal(e.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	var wearable sql.NullString
	if e.Wearable != nil {
		wearable, err = encodeJSON(e.Wearable)
		if err != nil {
			return fmt.Errorf("encode wearable: %w", err)
		}
	}
	_, err = s.db.Exec(`INSERT INTO emotional_entries
		(id, date, sattva, rajas, tamas, balance_index, confidence, reflection, dominant_guna, recommended, metrics, wearable, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date, e.Sattva, e.Rajas, e.Tamas, e.BalanceIndex, e.Confidence,
		toNullString(reflection), string(e.DominantGuna), recommended, string(metrics), wearable, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListEntries() ([]*services.EmotionalEntry, error) {
	rows, err := s.db.Query(`SELECT id, date, sattva, rajas, tamas, balance_index, confidence, reflection, dominant_guna, recommended, metrics, wearable, timestamp
		FROM emotional_entries ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []*services.EmotionalEntry
	for rows.Next() {
		var (
			e           services.EmotionalEntry
			reflection  sql.NullString
			dominant    string
			recommended sql.NullString
			metrics     string
			wearable    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Sattva, &e.Rajas, &e.Tamas, &e.BalanceIndex, &e.Confidence,
			&reflection, &dominant, &recommended, &metrics, &wearable, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		plain, err := s.cipher.Open(reflection.String)
		if err != nil {
			return nil, fmt.Errorf("open reflection %s: %w", e.ID, err)
		}
		e.Reflection = plain
		e.DominantGuna = services.Guna(dominant)
		e.RecommendedInterventionIDs = decodeStrings(recommended)
		if err := json.Unmarshal([]byte(metrics), &e.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics %s: %w", e.ID, err)
		}
		if wearable.Valid {
			var w services.WearableSnapshot
			if err := json.Unmarshal([]byte(wearable.String), &w); err != nil {
				return nil, fmt.Errorf("decode wearable %s: %w", e.ID, err)
			}
			e.Wearable = &w
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddSession(sess *services.InterventionSession) error {
	var rating sql.NullInt64
	if sess.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*sess.Rating), Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO intervention_sessions (id, intervention_id, completed_at, duration, rating)
		VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.InterventionID, sess.CompletedAt, sess.Duration, rating)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSessions() ([]*services.InterventionSession, error) {
	rows, err := s.db.Query(`SELECT id, intervention_id, completed_at, duration, rating
		FROM intervention_sessions ORDER BY completed_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*services.InterventionSession
	for rows.Next() {
		var (
			sess   services.InterventionSession
			rating sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &sess.InterventionID, &sess.CompletedAt, &sess.Duration, &rating); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int64)
			sess.Rating = &r
		}
		out = append(out, &sess)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddMessage(m *services.ChatMessage) error {
	content, err := s.cipher.Seal(m.Content)
	if err != nil {
		return fmt.Errorf("seal message: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO chat_messages (id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
		m.ID, m.Role, content, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMessages() ([]*services.ChatMessage, error) {
	rows, err := s.db.Query(`SELECT id, role, content, timestamp FROM chat_messages ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*services.ChatMessage
	for rows.Next() {
		var m services.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		plain, err := s.cipher.Open(m.Content)
		if err != nil {
			return nil, fmt.Errorf("open message %s: %w", m.ID, err)
		}
		m.Content = plain
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteMessagesBefore(cutoff int64) (int, error) {
	res, err := s.db.Exec(`DELETE FROM chat_messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) SaveInsights(in *services.ChatInsights) error {
	themes, err := encodeJSON(in.Themes)
	if err != nil {
		return fmt.Errorf("encode themes: %w", err)
	}
	highlights, err := encodeJSON(in.Highlights)
	if err != nil {
		return fmt.Errorf("encode highlights: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO chat_insights (id, summary, themes, highlights, last_updated)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET summary=excluded.summary, themes=excluded.themes,
			highlights=excluded.highlights, last_updated=excluded.last_updated`,
		toNullString(in.Summary), themes, highlights, in.LastUpdated)
	if err != nil {
		return fmt.Errorf("save insights: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetInsights() (*services.ChatInsights, error) {
	row := s.db.QueryRow(`SELECT summary, themes, highlights, last_updated FROM chat_insights WHERE id = 1`)
	var (
		summary     sql.NullString
		themes      sql.NullString
		highlights  sql.NullString
		lastUpdated sql.NullInt64
	)
	if err := row.Scan(&summary, &themes, &highlights, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get insights: %w", err)
	}
	return &services.ChatInsights{
		Summary:     summary.String,
		Themes:      decodeStrings(themes),
		Highlights:  decodeStrings(highlights),
		LastUpdated: lastUpdated.Int64,
	}, nil
}

func (s *SQLiteStore) GetPreferences() (*services.Preferences, error) {
	row := s.db.QueryRow(`SELECT theme, notifications, data_retention, context_consent FROM preferences WHERE id = 1`)
	var (
		p             services.Preferences
		notifications int64
		consent       int64
	)
	if err := row.Scan(&p.Theme, &notifications, &p.DataRetention, &consent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.DefaultPreferences(), nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	p.Notifications = notifications != 0
	p.ContextConsent = consent != 0
	return &p, nil
}

func (s *SQLiteStore) SavePreferences(p *services.Preferences) error {
	boolToInt := func(v bool) int64 {
		if v {
			return 1
		}
		return 0
	}
	_, err := s.db.Exec(`INSERT INTO preferences (id, theme, notifications, data_retention, context_consent)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET theme=excluded.theme, notifications=excluded.notifications,
			data_retention=excluded.data_retention, context_consent=excluded.context_consent`,
		p.Theme, boolToInt(p.Notifications), p.DataRetention, boolToInt(p.ContextConsent))
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// WipeAll deletes every user record in one transaction and resets the
// preferences row to defaults.
func (s *SQLiteStore) WipeAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM emotional_entries",
		"DELETE FROM intervention_sessions",
		"DELETE FROM chat_messages",
		"DELETE FROM chat_insights",
		"DELETE FROM preferences",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("wipe: %w", err)
		}
	}
	return tx.Commit()
}
