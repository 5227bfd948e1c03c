package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sattvalabs/triguna/internal/api"
	dbstore "github.com/sattvalabs/triguna/internal/db"
	"github.com/sattvalabs/triguna/internal/middleware"
	"github.com/sattvalabs/triguna/internal/utils"
)

func main() {
	addr := utils.SafeEnv("TRIGUNA_ADDR", ":8080")
	commit := os.Getenv("TRIGUNA_COMMIT")
	buildTime := os.Getenv("TRIGUNA_BUILD_TIME")

	store, err := buildStore()
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	if importPath := os.Getenv("TRIGUNA_IMPORT_PATH"); importPath != "" {
		if err := ImportSnapshotIfNeeded(store, importPath); err != nil {
			log.Fatalf("import snapshot: %v", err)
		}
	}

	router := api.NewRouter(store, api.Config{
		ExportSecret:     []byte(utils.SafeEnv("TRIGUNA_EXPORT_SECRET", "triguna-dev-secret")),
		ExportTTL:        10 * time.Minute,
		SafetyWebhookURL: os.Getenv("TRIGUNA_SAFETY_WEBHOOK"),
	})

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Triguna Engine",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.NoStore(middleware.SecureHeaders(middleware.CORS(mux)))

	log.Printf("triguna engine listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildStore opens the SQLite store when TRIGUNA_SQLITE_PATH is set and
// falls back to the in-memory store otherwise.
func buildStore() (api.Store, error) {
	sqlitePath := os.Getenv("TRIGUNA_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("TRIGUNA_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(sqlitePath))
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := dbstore.RunMigrations(conn, os.Getenv("TRIGUNA_MIGRATIONS_DIR")); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	cipher, err := dbstore.NewCipher(os.Getenv("TRIGUNA_STORAGE_SECRET"))
	if err != nil {
		return nil, fmt.Errorf("init storage cipher: %w", err)
	}
	if cipher == nil {
		log.Printf("TRIGUNA_STORAGE_SECRET not set, storing free text unencrypted")
	}
	return dbstore.NewStore(conn, cipher)
}
