package internal

import (
	"os"
	"time"
)

// ResolveCaptureDate picks the authoritative capture timestamp for an
// asset. Priority: embedded EXIF capture time, then the video container's
// creation tag, then the filesystem modification time. The fallback is
// always valid, so the result never degrades to "unknown".
func ResolveCaptureDate(img *ImageMetadata, vid *VideoMetadata, modTime time.Time) time.Time {
	if img != nil && !img.CaptureTime.IsZero() {
		return img.CaptureTime
	}
	if vid != nil && !vid.CreationTime.IsZero() {
		return vid.CreationTime
	}
	return modTime
}

// getFileModTime fallback to file modification time
func getFileModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
