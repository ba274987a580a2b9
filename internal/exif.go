package internal

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// ConvertDMSToDecimal converts a degrees/minutes/seconds coordinate plus
// hemisphere reference into signed decimal degrees. South and West are
// negative.
func ConvertDMSToDecimal(degrees, minutes, seconds float64, ref string) float64 {
	dd := degrees + minutes/60 + seconds/3600
	if ref == "S" || ref == "W" {
		dd = -dd
	}
	return dd
}

// ExtractImageMetadata decodes container dimensions and, for JPEG
// sources, the embedded EXIF block. A present-but-malformed EXIF block
// degrades to dimensions-only metadata and is reported as a warning,
// never as a failure.
func ExtractImageMetadata(path string, data []byte) (*ImageMetadata, *ProcessError) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Dimensions are the floor of what extraction promises; if even
		// the container header is unreadable there is nothing to return.
		return nil, newProcessError(path, ErrorCategoryMetadata, ErrorSeverityWarning,
			fmt.Errorf("image metadata decode failed: %w", err))
	}

	meta := &ImageMetadata{Width: cfg.Width, Height: cfg.Height}

	// PNG and GIF containers carry no EXIF; absence is not a warning.
	if format != "jpeg" {
		return meta, nil
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// A JPEG without any EXIF block is normal (screenshots, exports);
		// only a block that is present but unreadable is worth a warning.
		if strings.Contains(err.Error(), "failed to find exif intro marker") {
			return meta, nil
		}
		return meta, newProcessError(path, ErrorCategoryMetadata, ErrorSeverityWarning,
			fmt.Errorf("exif decode failed: %w", err))
	}

	fillExifFields(meta, x)
	return meta, nil
}

func fillExifFields(meta *ImageMetadata, x *exif.Exif) {
	meta.Make = exifString(x, exif.Make)
	meta.Model = exifString(x, exif.Model)
	meta.ISO = exifInt(x, exif.ISOSpeedRatings)
	meta.Orientation = exifInt(x, exif.Orientation)
	meta.ExposureTime = exifRatString(x, exif.ExposureTime)
	meta.FNumber = exifRatFloat(x, exif.FNumber)
	meta.FocalLength = exifRatFloat(x, exif.FocalLength)
	meta.GPS = exifGPS(x)

	if ts := exifString(x, exif.DateTimeOriginal); ts != "" {
		if t, err := time.ParseInLocation(exifTimeLayout, ts, time.Local); err == nil {
			meta.CaptureTime = t
		}
	}
}

func exifTag(x *exif.Exif, name exif.FieldName) *tiff.Tag {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	return tag
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag := exifTag(x, name)
	if tag == nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func exifInt(x *exif.Exif, name exif.FieldName) int {
	tag := exifTag(x, name)
	if tag == nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}

func exifRatFloat(x *exif.Exif, name exif.FieldName) float64 {
	tag := exifTag(x, name)
	if tag == nil {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// exifRatString renders a rational tag the way cameras report exposure,
// e.g. "1/250".
func exifRatString(x *exif.Exif, name exif.FieldName) string {
	tag := exifTag(x, name)
	if tag == nil {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// exifGPS reads the three DMS rationals plus hemisphere refs and converts
// to decimal degrees. Returns nil when either coordinate is missing.
func exifGPS(x *exif.Exif) *GeoPoint {
	lat, ok := exifDMS(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if !ok {
		return nil
	}
	lng, ok := exifDMS(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if !ok {
		return nil
	}
	return &GeoPoint{Latitude: lat, Longitude: lng}
}

func exifDMS(x *exif.Exif, coord, ref exif.FieldName) (float64, bool) {
	tag := exifTag(x, coord)
	if tag == nil {
		return 0, false
	}
	var parts [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return 0, false
		}
		parts[i] = float64(num) / float64(den)
	}
	return ConvertDMSToDecimal(parts[0], parts[1], parts[2], exifString(x, ref)), true
}

// ExifToolExtractor extracts image metadata through the exiftool binary.
// Slower than the in-process decoder but reads vendor tags goexif does
// not know about.
type ExifToolExtractor struct {
	et *exiftool.Exiftool
}

func NewExifToolExtractor() (*ExifToolExtractor, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExifToolExtractor{et: et}, nil
}

func (e *ExifToolExtractor) Close() error {
	return e.et.Close()
}

func (e *ExifToolExtractor) ExtractImage(path string) (*ImageMetadata, *ProcessError) {
	fis := e.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return nil, newProcessError(path, ErrorCategoryMetadata, ErrorSeverityWarning,
			fmt.Errorf("exiftool returned no metadata"))
	}
	fi := fis[0]
	if fi.Err != nil {
		return nil, newProcessError(path, ErrorCategoryMetadata, ErrorSeverityWarning,
			fmt.Errorf("exiftool extraction failed: %w", fi.Err))
	}

	meta := &ImageMetadata{}
	if v, err := fi.GetString("Make"); err == nil {
		meta.Make = v
	}
	if v, err := fi.GetString("Model"); err == nil {
		meta.Model = v
	}
	if v, err := fi.GetInt("ImageWidth"); err == nil {
		meta.Width = int(v)
	}
	if v, err := fi.GetInt("ImageHeight"); err == nil {
		meta.Height = int(v)
	}
	if v, err := fi.GetInt("ISO"); err == nil {
		meta.ISO = int(v)
	}
	if v, err := fi.GetInt("Orientation"); err == nil {
		meta.Orientation = int(v)
	}
	if v, err := fi.GetString("ExposureTime"); err == nil {
		meta.ExposureTime = v
	}
	if v, err := fi.GetFloat("FNumber"); err == nil {
		meta.FNumber = v
	}
	if v, err := fi.GetFloat("FocalLength"); err == nil {
		meta.FocalLength = v
	}
	if v, err := fi.GetString("DateTimeOriginal"); err == nil {
		if t, perr := time.ParseInLocation(exifTimeLayout, v, time.Local); perr == nil {
			meta.CaptureTime = t
		}
	}
	lat, latErr := fi.GetFloat("GPSLatitude")
	lng, lngErr := fi.GetFloat("GPSLongitude")
	if latErr == nil && lngErr == nil {
		meta.GPS = &GeoPoint{Latitude: lat, Longitude: lng}
	}
	return meta, nil
}
