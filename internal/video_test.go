package internal

import (
	"testing"
	"time"
)

func TestParseFFprobeOutput(t *testing.T) {
	payload := []byte(`{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1920, "height": 1080}
		],
		"format": {
			"duration": "12.480000",
			"bit_rate": "2048000",
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"tags": {"creation_time": "2023-06-15T14:30:00.000000Z"}
		}
	}`)

	result, err := parseFFprobeOutput(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if result.Width != 1920 || result.Height != 1080 {
		t.Errorf("Expected 1920x1080 from the video stream, got %dx%d", result.Width, result.Height)
	}
	if result.DurationSeconds != 12.48 {
		t.Errorf("Expected duration 12.48, got %v", result.DurationSeconds)
	}
	if result.Bitrate != 2048000 {
		t.Errorf("Expected bitrate 2048000, got %d", result.Bitrate)
	}
	if result.ContainerFormat != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("Unexpected container format %q", result.ContainerFormat)
	}
	expected := time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC)
	if !result.CreationTime.Equal(expected) {
		t.Errorf("Expected creation time %v, got %v", expected, result.CreationTime)
	}
}

func TestParseFFprobeOutput_MissingFields(t *testing.T) {
	result, err := parseFFprobeOutput([]byte(`{"streams": [], "format": {"format_name": "avi"}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.Width != 0 || result.DurationSeconds != 0 || result.Bitrate != 0 {
		t.Errorf("Expected zero values for absent fields, got %+v", result)
	}
	if !result.CreationTime.IsZero() {
		t.Errorf("Expected zero creation time, got %v", result.CreationTime)
	}
}

func TestParseFFprobeOutput_Garbage(t *testing.T) {
	if _, err := parseFFprobeOutput([]byte("not json")); err == nil {
		t.Error("Expected error for unparseable output")
	}
}

func TestShapeVideoMetadata(t *testing.T) {
	created := time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC)
	probe := &ProbeResult{
		Width: 1280, Height: 720, DurationSeconds: 5.5,
		Bitrate: 900000, ContainerFormat: "matroska,webm", CreationTime: created,
	}

	meta := ShapeVideoMetadata(probe)
	if meta.Width != 1280 || meta.Height != 720 {
		t.Errorf("Dimensions not carried over: %+v", meta)
	}
	if meta.DurationSeconds != 5.5 || meta.Bitrate != 900000 {
		t.Errorf("Duration/bitrate not carried over: %+v", meta)
	}
	if meta.ContainerFormat != "matroska,webm" || !meta.CreationTime.Equal(created) {
		t.Errorf("Format/creation time not carried over: %+v", meta)
	}
}

func TestIsISOBMFF(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/v/clip.mp4", true},
		{"/v/clip.MOV", true},
		{"/v/clip.m4v", true},
		{"/v/clip.avi", false},
		{"/v/clip.mkv", false},
	}
	for _, tc := range testCases {
		if got := isISOBMFF(tc.path); got != tc.expected {
			t.Errorf("isISOBMFF(%q) = %v, expected %v", tc.path, got, tc.expected)
		}
	}
}
