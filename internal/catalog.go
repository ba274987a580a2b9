package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Catalog persists the cumulative asset list as a flat JSON file under
// the archive root (db/photos.json). It owns the collection; the import
// pipeline only hands it batches.
type Catalog struct {
	mu   sync.Mutex
	path string
}

func NewCatalog(archiveRoot string) *Catalog {
	return &Catalog{path: filepath.Join(archiveRoot, "db", "photos.json")}
}

// Load reads the stored asset list. A missing file is an empty catalog.
func (c *Catalog) Load() ([]*ImportedAsset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Catalog) load() ([]*ImportedAsset, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var assets []*ImportedAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("catalog is corrupt: %w", err)
	}
	return assets, nil
}

// Append merges newly imported assets into the catalog and rewrites it
// atomically.
func (c *Catalog) Append(batch []*ImportedAsset) error {
	if len(batch) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	assets, err := c.load()
	if err != nil {
		return err
	}
	assets = append(assets, batch...)

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	data, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return writeFileAtomic(c.path, data)
}

// Search filters the catalog by a case-insensitive substring over the
// original name, the capture date and the metadata fields.
func (c *Catalog) Search(query string) ([]*ImportedAsset, error) {
	assets, err := c.Load()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matched []*ImportedAsset
	for _, a := range assets {
		if matchesAsset(a, query) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func matchesAsset(a *ImportedAsset, query string) bool {
	if strings.Contains(strings.ToLower(a.OriginalName), query) {
		return true
	}
	if strings.Contains(a.CapturedAt.Format("2006-01-02"), query) {
		return true
	}
	if a.Image != nil && metaContains(a.Image, query) {
		return true
	}
	if a.Video != nil && metaContains(a.Video, query) {
		return true
	}
	return false
}

func metaContains(meta interface{}, query string) bool {
	data, err := json.Marshal(meta)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), query)
}
