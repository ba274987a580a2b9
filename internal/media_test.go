package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanMediaFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "trip")
	os.MkdirAll(nested, 0755)

	os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "b.MOV"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(nested, "c.heic"), []byte("x"), 0644)

	files, err := ScanMediaFiles(dir, nil)
	if err != nil {
		t.Fatalf("ScanMediaFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 media files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) == ".txt" {
			t.Errorf("Text file should have been filtered out: %s", f)
		}
	}
}

func TestScanMediaFiles_CustomClassifier(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "b.webp"), []byte("x"), 0644)

	cl := NewClassifier([]string{".webp"}, nil)
	files, err := ScanMediaFiles(dir, cl)
	if err != nil {
		t.Fatalf("ScanMediaFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Ext(files[0]) != ".webp" {
		t.Errorf("Expected only the webp file, got %v", files)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644)

	single := filepath.Join(dir, "a.jpg")

	// A directory is scanned; an explicit file is passed through even if
	// unsupported, so the pipeline can record the skip.
	files, err := ExpandPaths([]string{dir, filepath.Join(dir, "skip.txt")}, nil)
	if err != nil {
		t.Fatalf("ExpandPaths failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 paths, got %d: %v", len(files), files)
	}

	files, err = ExpandPaths([]string{single}, nil)
	if err != nil {
		t.Fatalf("ExpandPaths failed: %v", err)
	}
	if len(files) != 1 || files[0] != single {
		t.Errorf("Expected the single file back, got %v", files)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing.jpg")}, nil); err == nil {
		t.Error("Expected error for missing path")
	}
}
