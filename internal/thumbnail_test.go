package internal

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode thumbnail: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestImageThumbnail_CoverFit(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
	}{
		{"landscape", 800, 400},
		{"portrait", 300, 900},
		{"square", 500, 500},
		{"smaller than target", 100, 60},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := encodeJPEG(t, createTestImage(tc.width, tc.height))
			thumb, err := ImageThumbnail(data, 0, 300)
			if err != nil {
				t.Fatalf("ImageThumbnail failed: %v", err)
			}
			w, h := decodeDims(t, thumb)
			if w != 300 || h != 300 {
				t.Errorf("Expected 300x300, got %dx%d", w, h)
			}
		})
	}
}

func TestNormalizeOrientation(t *testing.T) {
	src := createTestImage(200, 100)

	testCases := []struct {
		orientation        int
		expectedW, expectedH int
	}{
		{1, 200, 100}, // identity
		{0, 200, 100}, // missing tag
		{2, 200, 100}, // mirrored values are treated as identity
		{3, 200, 100}, // 180 keeps dimensions
		{6, 100, 200}, // 90 swaps dimensions
		{8, 100, 200}, // 270 swaps dimensions
	}

	for _, tc := range testCases {
		out := NormalizeOrientation(src, tc.orientation)
		b := out.Bounds()
		if b.Dx() != tc.expectedW || b.Dy() != tc.expectedH {
			t.Errorf("Orientation %d: expected %dx%d, got %dx%d",
				tc.orientation, tc.expectedW, tc.expectedH, b.Dx(), b.Dy())
		}
	}
}

func TestImageThumbnail_NormalizationIdempotent(t *testing.T) {
	data := encodeJPEG(t, createTestImage(400, 200))

	// First pass with a rotated source tag.
	thumb, err := ImageThumbnail(data, 6, 300)
	if err != nil {
		t.Fatalf("ImageThumbnail failed: %v", err)
	}

	// The output is a plain JPEG with no orientation tag, i.e. identity;
	// running normalization again must be a no-op.
	if got := frameOrientation(thumb); got != 0 && got != 1 {
		t.Errorf("Expected identity orientation on output, got %d", got)
	}
	again, err := ImageThumbnail(thumb, frameOrientation(thumb), 300)
	if err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	w, h := decodeDims(t, again)
	if w != 300 || h != 300 {
		t.Errorf("Second pass changed geometry: %dx%d", w, h)
	}
}

func TestWriteImageThumbnail_Atomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "thumb.jpg")
	data := encodeJPEG(t, createTestImage(640, 480))

	if err := WriteImageThumbnail(data, 0, 300, dest); err != nil {
		t.Fatalf("WriteImageThumbnail failed: %v", err)
	}

	out, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Thumbnail not written: %v", err)
	}
	if w, h := decodeDims(t, out); w != 300 || h != 300 {
		t.Errorf("Expected 300x300, got %dx%d", w, h)
	}

	// No temp file left behind.
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file left in place after rename")
	}
}

func TestWriteImageThumbnail_BadInput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "thumb.jpg")

	if err := WriteImageThumbnail([]byte("garbage"), 0, 300, dest); err == nil {
		t.Fatal("Expected error for undecodable input")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("No thumbnail file should exist after a failed generation")
	}
}
