package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mhoersch/hoursheet/internal/model"
)

// ProjectCache is the on-disk copy of the account's project list. The list
// changes rarely, so commands read it instead of fetching on every run.
type ProjectCache struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Projects  []model.Project `json:"projects"`
}

// MaxAge is how long a cached project list is trusted before it is
// re-fetched.
const MaxAge = 24 * time.Hour

func projectsPath(base string) string {
	return filepath.Join(base, "cache", "projects.json")
}

// Stale reports whether the cache is empty or older than MaxAge.
func (c ProjectCache) Stale(now time.Time) bool {
	return len(c.Projects) == 0 || now.Sub(c.FetchedAt) > MaxAge
}

// LoadProjects loads the cached project list. Returns an empty cache if the
// file does not exist.
func LoadProjects(base string) (ProjectCache, error) {
	path := projectsPath(base)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ProjectCache{}, nil
	}
	if err != nil {
		return ProjectCache{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var c ProjectCache
	if err := json.Unmarshal(data, &c); err != nil {
		// Back up corrupt file and start over with an empty cache.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return ProjectCache{}, nil
	}
	return c, nil
}

// SaveProjects atomically writes the project list with the current time as
// fetch timestamp.
func SaveProjects(base string, projects []model.Project) error {
	path := projectsPath(base)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	c := ProjectCache{FetchedAt: time.Now(), Projects: projects}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
