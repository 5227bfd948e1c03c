package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sattvalabs/triguna/internal/services"
)

// Config carries the knobs the router needs beyond the store.
type Config struct {
	ExportSecret     []byte
	ExportTTL        time.Duration
	SafetyWebhookURL string
}

type Router struct {
	store    Store
	checkins *services.CheckinService
	practice *services.PracticeService
	chat     *services.ChatService
	export   *services.ExportService
}

func NewRouter(store Store, cfg Config) *Router {
	return &Router{
		store:    store,
		checkins: services.NewCheckinService(store),
		practice: services.NewPracticeService(store),
		chat:     services.NewChatService(store, services.NewSafetyNotifier(cfg.SafetyWebhookURL)),
		export:   services.NewExportService(store, cfg.ExportSecret, cfg.ExportTTL),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/checkins", rt.handleCheckins)            // POST, GET
	mux.HandleFunc("/api/checkins/latest", rt.handleLatest)       // GET
	mux.HandleFunc("/api/trend", rt.handleTrend)                  // GET
	mux.HandleFunc("/api/summary", rt.handleSummary)              // GET
	mux.HandleFunc("/api/interventions", rt.handleInterventions)  // GET
	mux.HandleFunc("/api/interventions/", rt.handleIntervention)  // GET /api/interventions/{id}
	mux.HandleFunc("/api/sessions", rt.handleSessions)            // POST
	mux.HandleFunc("/api/analytics/practice", rt.handleAnalytics) // GET
	mux.HandleFunc("/api/chat/messages", rt.handleChatMessages)   // POST, GET
	mux.HandleFunc("/api/chat/insights", rt.handleChatInsights)   // GET
	mux.HandleFunc("/api/chat/context", rt.handleChatContext)     // GET
	mux.HandleFunc("/api/preferences", rt.handlePreferences)      // GET, PUT
	mux.HandleFunc("/api/export", rt.handleExport)                // POST, GET
	mux.HandleFunc("/api/data", rt.handleData)                    // DELETE
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error codes onto HTTP statuses; anything that is
// not a ServiceError is a 500.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": svcErr.Message, "code": string(svcErr.Code)})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// POST /api/checkins | GET /api/checkins?limit=N
func (rt *Router) handleCheckins(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			services.RawCheckIn
			Wearable *services.WearableSnapshot `json:"wearable,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entry, snapshot, err := rt.checkins.CreateEntry(req.RawCheckIn, req.Wearable)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": entry, "snapshot": snapshot})
	case http.MethodGet:
		entries, err := rt.checkins.Recent(queryInt(r, "limit"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/checkins/latest
func (rt *Router) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entry, err := rt.checkins.Latest()
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no check-ins yet", "code": string(services.ErrorNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GET /api/trend?days=N
func (rt *Router) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	points, err := rt.checkins.Trend(queryInt(r, "days"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// GET /api/summary
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary, err := rt.checkins.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/interventions
func (rt *Router) handleInterventions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interventions": services.Interventions()})
}

// GET /api/interventions/{id}
func (rt *Router) handleIntervention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/interventions/")
	def := services.GetInterventionDefinition(id)
	if def == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "intervention not found", "code": string(services.ErrorNotFound)})
		return
	}
	out := map[string]any{"intervention": def, "meta": services.GetInterventionMeta(id)}
	if ref, ok := services.GetScriptureReference(id); ok {
		out["scripture"] = ref
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/sessions
func (rt *Router) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		InterventionID string `json:"interventionId"`
		Duration       int    `json:"duration"`
		Rating         *int   `json:"rating,omitempty"`
		CompletedAt    int64  `json:"completedAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := rt.practice.RecordSession(req.InterventionID, req.Duration, req.Rating, req.CompletedAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GET /api/analytics/practice?days=N
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	analytics, err := rt.practice.Analytics(queryInt(r, "days"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// POST /api/chat/messages | GET /api/chat/messages
// A crisis classification swaps the model turn for the helpline reply; the
// transport must show it verbatim instead of calling the model.
func (rt *Router) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		message, moderation, err := rt.chat.AppendMessage(req.Role, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		out := map[string]any{"message": message, "moderation": moderation}
		if moderation.Severity == services.SeverityCrisis {
			check := services.CheckForCrisisLanguage(req.Content)
			level := check.Level
			if level == "" {
				level = services.SafetyImmediate
			}
			out["reply"] = services.BuildHelplineResponse(level)
		}
		writeJSON(w, http.StatusCreated, out)
	case http.MethodGet:
		// Retention pruning runs on read, like the app pruned on load.
		if _, err := rt.chat.PruneHistory(); err != nil {
			writeError(w, err)
			return
		}
		messages, err := rt.store.ListMessages()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": messages, "count": len(messages)})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/chat/insights
func (rt *Router) handleChatInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	insights, err := rt.chat.RefreshInsights()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// GET /api/chat/context
func (rt *Router) handleChatContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	context, err := rt.chat.Context()
	if err != nil {
		writeError(w, err)
		return
	}
	instruction, err := rt.chat.SystemInstruction(nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"context": context, "systemInstruction": instruction})
}

// GET /api/preferences | PUT /api/preferences
func (rt *Router) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := rt.store.GetPreferences()
		if err != nil {
			writeError(w, err)
			return
		}
		if prefs == nil {
			prefs = services.DefaultPreferences()
		}
		writeJSON(w, http.StatusOK, prefs)
	case http.MethodPut:
		var prefs services.Preferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if prefs.Theme != "light" && prefs.Theme != "dark" {
			writeError(w, services.NewInvalidError("theme must be light or dark"))
			return
		}
		if prefs.DataRetention < 0 {
			writeError(w, services.NewInvalidError("dataRetention must not be negative"))
			return
		}
		if err := rt.store.SavePreferences(&prefs); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/export → ticket | GET /api/export?token=… → bundle
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		ticket, err := rt.export.CreateTicket()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ticket)
	case http.MethodGet:
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, services.NewInvalidError("token required"))
			return
		}
		bundle, err := rt.export.Export(token)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Disposition", "attachment; filename=triguna-export.json")
		writeJSON(w, http.StatusOK, bundle)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// DELETE /api/data?confirm=true
func (rt *Router) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, services.NewInvalidError("confirm=true required"))
		return
	}
	if err := rt.export.Wipe(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
