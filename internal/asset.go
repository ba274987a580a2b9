package internal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a GPS position in signed decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ImageMetadata holds camera EXIF fields plus container dimensions.
// Everything except Width/Height is optional: a camera-less PNG still
// produces valid metadata with only the dimensions set.
type ImageMetadata struct {
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	ISO          int       `json:"iso,omitempty"`
	ExposureTime string    `json:"exposure_time,omitempty"`
	FNumber      float64   `json:"f_number,omitempty"`
	FocalLength  float64   `json:"focal_length,omitempty"`
	GPS          *GeoPoint `json:"gps,omitempty"`
	CaptureTime  time.Time `json:"capture_time,omitempty"`
	Orientation  int       `json:"orientation,omitempty"`
}

// VideoMetadata holds the primary stream attributes from a container probe.
type VideoMetadata struct {
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	DurationSeconds float64   `json:"duration_seconds"`
	Bitrate         int64     `json:"bitrate,omitempty"`
	ContainerFormat string    `json:"container_format"`
	CreationTime    time.Time `json:"creation_time,omitempty"`
}

// ImportedAsset is one successfully imported media item. Created once by
// the pipeline, immutable afterwards. Exactly one of Image/Video is set
// when extraction succeeded; both are nil when it degraded completely.
type ImportedAsset struct {
	ID             string         `json:"id"`
	StoredPath     string         `json:"path"`
	OriginalName   string         `json:"name"`
	CapturedAt     time.Time      `json:"date"`
	Image          *ImageMetadata `json:"image_metadata,omitempty"`
	Video          *VideoMetadata `json:"video_metadata,omitempty"`
	ThumbnailPath  string         `json:"thumbnail,omitempty"`
	OriginalFormat string         `json:"original_format"`
	Kind           MediaKind      `json:"type"`
}

// NewAssetID returns a collision-resistant identifier: ingestion
// nanoseconds plus a random disambiguator, safe under concurrent
// generation without shared state.
func NewAssetID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()[:8])
}
