// Package ingest reads the flat input files of one batch: per-user event
// uploads plus the users, survey and feedback CSV tables.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EventFileNames are the accepted event file names inside a user's upload
// directory, in priority order.
var EventFileNames = []string{"location-history.json", "Spostamenti.json"}

// UserUpload points at one user's event file.
type UserUpload struct {
	UserID string
	Path   string
}

// ScanUploads walks the uploads directory, one sub-directory per user, and
// resolves each user's event file. Users without a recognized file land in
// missing; they are reported, not fatal. Results are sorted by user ID so
// repeated builds process users in the same order.
func ScanUploads(dir string) (uploads []UserUpload, missing []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		userID := entry.Name()

		var path string
		for _, name := range EventFileNames {
			candidate := filepath.Join(dir, userID, name)
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
				break
			}
		}

		if path == "" {
			missing = append(missing, userID)
			continue
		}
		uploads = append(uploads, UserUpload{UserID: userID, Path: path})
	}

	sort.Slice(uploads, func(i, j int) bool { return uploads[i].UserID < uploads[j].UserID })
	sort.Strings(missing)
	return uploads, missing, nil
}

// LoadEvents decodes one event file into its raw container value. Shape
// validation is the parser's job; this only fails on I/O or invalid JSON.
func LoadEvents(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file %s: %w", path, err)
	}

	var container interface{}
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("failed to decode event file %s: %w", path, err)
	}
	return container, nil
}
