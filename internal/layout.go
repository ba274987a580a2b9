package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Layout computes and prepares the date-bucketed archive tree:
// root/YYYY/MM/DD with a thumbnails child under each day directory.
type Layout struct {
	Root string
}

// DayDir returns the day-bucket directory for a capture timestamp.
func (l *Layout) DayDir(capturedAt time.Time) string {
	return filepath.Join(l.Root,
		fmt.Sprintf("%04d", capturedAt.Year()),
		fmt.Sprintf("%02d", capturedAt.Month()),
		fmt.Sprintf("%02d", capturedAt.Day()))
}

// ThumbDir returns the thumbnail directory under a day bucket.
func (l *Layout) ThumbDir(capturedAt time.Time) string {
	return filepath.Join(l.DayDir(capturedAt), "thumbnails")
}

// EnsureDayDirs creates the day bucket and its thumbnails child.
// MkdirAll is idempotent, so concurrent imports targeting the same day
// never race-fail on an existing directory.
func (l *Layout) EnsureDayDirs(capturedAt time.Time) (string, error) {
	dayDir := l.DayDir(capturedAt)
	if err := os.MkdirAll(l.ThumbDir(capturedAt), 0755); err != nil {
		return "", fmt.Errorf("failed to create day directory %s: %w", dayDir, err)
	}
	return dayDir, nil
}

// EnsureRoot creates the archive root. Failure here is the one batch-level
// failure the pipeline surfaces.
func (l *Layout) EnsureRoot() error {
	if err := os.MkdirAll(l.Root, 0755); err != nil {
		return fmt.Errorf("archive root inaccessible: %w", err)
	}
	return nil
}

// StoredName builds a collision-free archive file name from the ingestion
// instant and the source base name. Two sources sharing a base name land
// on distinct names because the nanosecond component differs.
func StoredName(ingest time.Time, originalName, ext string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", ingest.UnixNano(), base, ext)
}

// ThumbName builds the matching thumbnail file name. Thumbnails are
// always JPEG regardless of the source format.
func ThumbName(ingest time.Time, originalName string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	return fmt.Sprintf("thumb-%d-%s.jpg", ingest.UnixNano(), base)
}
