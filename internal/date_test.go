package internal

import (
	"testing"
	"time"
)

func TestResolveCaptureDate_ExifWins(t *testing.T) {
	taken := time.Date(2023, 6, 15, 14, 30, 0, 0, time.Local)
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	img := &ImageMetadata{Width: 100, Height: 100, CaptureTime: taken}
	if got := ResolveCaptureDate(img, nil, modified); !got.Equal(taken) {
		t.Errorf("Expected EXIF capture time %v, got %v", taken, got)
	}
}

func TestResolveCaptureDate_VideoCreationTag(t *testing.T) {
	created := time.Date(2022, 3, 10, 9, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	vid := &VideoMetadata{Width: 1920, Height: 1080, CreationTime: created}
	if got := ResolveCaptureDate(nil, vid, modified); !got.Equal(created) {
		t.Errorf("Expected container creation time %v, got %v", created, got)
	}
}

func TestResolveCaptureDate_ModTimeFallback(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	if got := ResolveCaptureDate(nil, nil, modified); !got.Equal(modified) {
		t.Errorf("Expected mod time %v, got %v", modified, got)
	}

	// Metadata present but without an embedded timestamp still falls back.
	img := &ImageMetadata{Width: 100, Height: 100}
	if got := ResolveCaptureDate(img, nil, modified); !got.Equal(modified) {
		t.Errorf("Expected mod time fallback %v, got %v", modified, got)
	}
	vid := &VideoMetadata{Width: 1920, Height: 1080}
	if got := ResolveCaptureDate(nil, vid, modified); !got.Equal(modified) {
		t.Errorf("Expected mod time fallback %v, got %v", modified, got)
	}
}
