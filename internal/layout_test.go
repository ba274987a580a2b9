package internal

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLayout_DayDir(t *testing.T) {
	l := &Layout{Root: "/archive"}

	captured := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	expected := filepath.Join("/archive", "2024", "03", "05")
	if got := l.DayDir(captured); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestLayout_DayDirDeterministic(t *testing.T) {
	l := &Layout{Root: "/archive"}

	morning := time.Date(2024, 12, 9, 8, 0, 0, 0, time.Local)
	evening := time.Date(2024, 12, 9, 22, 45, 0, 0, time.Local)
	if l.DayDir(morning) != l.DayDir(evening) {
		t.Error("Two captures on the same date must share a day directory")
	}
}

func TestLayout_EnsureDayDirs(t *testing.T) {
	l := &Layout{Root: t.TempDir()}
	captured := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)

	dayDir, err := l.EnsureDayDirs(captured)
	if err != nil {
		t.Fatalf("EnsureDayDirs failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dayDir, "thumbnails")); err != nil {
		t.Errorf("Expected thumbnails subdirectory: %v", err)
	}

	// Idempotent on repeat
	if _, err := l.EnsureDayDirs(captured); err != nil {
		t.Errorf("Second EnsureDayDirs failed: %v", err)
	}
}

func TestLayout_EnsureDayDirsConcurrent(t *testing.T) {
	l := &Layout{Root: t.TempDir()}
	captured := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.EnsureDayDirs(captured); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent EnsureDayDirs failed: %v", err)
	}
}

func TestStoredName_Unique(t *testing.T) {
	t1 := time.Unix(0, 1700000000000000001)
	t2 := time.Unix(0, 1700000000000000002)

	n1 := StoredName(t1, "photo.jpg", ".jpg")
	n2 := StoredName(t2, "photo.jpg", ".jpg")
	if n1 == n2 {
		t.Errorf("Same base name must not collide: %s == %s", n1, n2)
	}
	if !strings.HasSuffix(n1, "-photo.jpg") {
		t.Errorf("Expected original base name preserved, got %s", n1)
	}
}

func TestStoredName_ExtensionSwap(t *testing.T) {
	ingest := time.Unix(0, 1700000000000000001)

	// HEIC originals are stored with the transcoded extension.
	n := StoredName(ingest, "IMG_0001.heic", ".jpg")
	if !strings.HasSuffix(n, "-IMG_0001.jpg") {
		t.Errorf("Expected .jpg stored name for transcoded heic, got %s", n)
	}
}

func TestThumbName(t *testing.T) {
	ingest := time.Unix(0, 1700000000000000001)

	n := ThumbName(ingest, "clip.mp4")
	if !strings.HasPrefix(n, "thumb-") || !strings.HasSuffix(n, "-clip.jpg") {
		t.Errorf("Unexpected thumbnail name %s", n)
	}
}

func TestNewAssetID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewAssetID(now)
		if seen[id] {
			t.Fatalf("Duplicate asset ID generated: %s", id)
		}
		seen[id] = true
	}
}
