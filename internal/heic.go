package internal

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"
)

const heicJpegQuality = 95

// TranscodeHeicToJpeg converts HEIC image bytes to JPEG bytes. The result
// replaces the original byte stream for both archival write and
// thumbnailing, and the stored file takes a .jpg extension.
func TranscodeHeicToJpeg(path string, data []byte) ([]byte, *ProcessError) {
	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newProcessError(path, ErrorCategoryTranscode, ErrorSeverityError,
			fmt.Errorf("heic decode failed: %w", err))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(heicJpegQuality)); err != nil {
		return nil, newProcessError(path, ErrorCategoryTranscode, ErrorSeverityError,
			fmt.Errorf("heic jpeg encode failed: %w", err))
	}
	return buf.Bytes(), nil
}

// ExtractHeicMetadata pulls dimensions from the transcoded JPEG and the
// camera fields from the EXIF block of the original HEIC container, since
// re-encoding drops the block.
func ExtractHeicMetadata(path string, heicData, jpegData []byte) (*ImageMetadata, *ProcessError) {
	meta, warn := ExtractImageMetadata(path, jpegData)
	if meta == nil {
		return nil, warn
	}

	raw, err := goheif.ExtractExif(bytes.NewReader(heicData))
	if err != nil || len(raw) == 0 {
		// No EXIF item in the container; dimensions-only is fine.
		return meta, nil
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return meta, newProcessError(path, ErrorCategoryMetadata, ErrorSeverityWarning,
			fmt.Errorf("heic exif decode failed: %w", err))
	}
	fillExifFields(meta, x)
	return meta, nil
}
