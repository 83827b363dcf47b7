// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ik5/mixdown/export"
	"github.com/ik5/mixdown/internal/logging"
)

// cacheEntry is the durable per-stem record. Its presence means the
// normalization stage for that stem is complete and must not be redone.
// Entries are written once and never mutated; the JSON keys match the
// on-disk cache format exactly.
type cacheEntry struct {
	SampleRate int         `json:"sr"`
	Data       []float64   `json:"data"`
	Report     TrackReport `json:"report"`
}

// cacheStore persists normalized stems as cache/<name>.json under the
// output directory.
type cacheStore struct {
	dir string
	log *slog.Logger
}

func newCacheStore(dir string, logger *slog.Logger) *cacheStore {
	return &cacheStore{
		dir: dir,
		log: logging.NewComponentLogger(logger, "cache"),
	}
}

func (c *cacheStore) path(name string) string {
	return filepath.Join(c.dir, name+".json")
}

// load returns the cached entry for a stem, or nil on a miss. A corrupt
// entry is treated as a miss rather than a failure: normalization is
// idempotent and safe to redo, so the entry is simply recomputed and
// replaced.
func (c *cacheStore) load(name string) *cacheEntry {
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("cache entry unreadable, recomputing",
				logging.String("stem", name), logging.Error(err))
		}
		return nil
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Warn("cache entry corrupt, recomputing",
			logging.String("stem", name), logging.Error(err))
		return nil
	}

	if entry.SampleRate != export.TargetRate || len(entry.Data) == 0 {
		c.log.Warn("cache entry has stale format, recomputing",
			logging.String("stem", name), logging.Int("sr", entry.SampleRate))
		return nil
	}

	return &entry
}

// store persists an entry via a temp file and rename, so a killed
// process never leaves a half-written entry under the real name.
func (c *cacheStore) store(name string, entry *cacheEntry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", name, err)
	}

	tmp := c.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry for %s: %w", name, err)
	}

	if err := os.Rename(tmp, c.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing cache entry for %s: %w", name, err)
	}

	return nil
}
