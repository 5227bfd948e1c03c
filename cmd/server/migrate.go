package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/sattvalabs/triguna/internal/api"
	"github.com/sattvalabs/triguna/internal/services"
)

// ImportSnapshotIfNeeded loads a previously exported bundle into an empty
// store. This is the migration path from the browser-local app: export the
// JSON there, point TRIGUNA_IMPORT_PATH at the file here. A store that
// already holds entries is left alone so the import cannot duplicate data
// across restarts.
func ImportSnapshotIfNeeded(store api.Store, snapshotPath string) error {
	entries, err := store.ListEntries()
	if err != nil {
		return fmt.Errorf("inspect store: %w", err)
	}
	if len(entries) > 0 {
		return nil // already populated
	}

	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	var bundle services.ExportBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	log.Printf("importing snapshot %s (%d entries, %d sessions, %d messages)",
		snapshotPath, len(bundle.Entries), len(bundle.Sessions), len(bundle.Messages))

	// Entries arrive newest first in a bundle; insert oldest first so the
	// store's own ordering rebuilds them the same way.
	for i := len(bundle.Entries) - 1; i >= 0; i-- {
		if e := bundle.Entries[i]; e != nil {
			if err := store.AddEntry(e); err != nil {
				return fmt.Errorf("import entry %s: %w", e.ID, err)
			}
		}
	}
	for _, s := range bundle.Sessions {
		if s != nil {
			if err := store.AddSession(s); err != nil {
				return fmt.Errorf("import session %s: %w", s.ID, err)
			}
		}
	}
	for _, m := range bundle.Messages {
		if m != nil {
			if err := store.AddMessage(m); err != nil {
				return fmt.Errorf("import message %s: %w", m.ID, err)
			}
		}
	}
	if bundle.Insights != nil {
		if err := store.SaveInsights(bundle.Insights); err != nil {
			return fmt.Errorf("import insights: %w", err)
		}
	}
	if bundle.Preferences != nil {
		if err := store.SavePreferences(bundle.Preferences); err != nil {
			return fmt.Errorf("import preferences: %w", err)
		}
	}

	log.Printf("snapshot import completed")
	return nil
}
