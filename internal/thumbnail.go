package internal

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

const thumbJpegQuality = 85

// videoFrameOffset is where the representative frame is taken from.
const videoFrameOffset = time.Second

// NormalizeOrientation applies the rotation an EXIF orientation tag
// demands so the pixels read upright. Tags 3, 6 and 8 map to 180, 90 and
// 270 degrees clockwise; every other value is identity.
func NormalizeOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		// 90 degrees clockwise
		return imaging.Rotate270(img)
	case 8:
		// 270 degrees clockwise
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// ImageThumbnail renders a square cover-fit preview: rotate per the
// orientation tag first, then crop-to-fill centered. The JPEG output
// carries no orientation tag, which is the identity value, so viewers
// never double-rotate.
func ImageThumbnail(data []byte, orientation, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail source decode failed: %w", err)
	}

	img = NormalizeOrientation(img, orientation)
	img = imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(thumbJpegQuality)); err != nil {
		return nil, fmt.Errorf("thumbnail encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteImageThumbnail generates and places a thumbnail with the
// temp-then-rename discipline, so a reader never sees a partial file.
func WriteImageThumbnail(data []byte, orientation, size int, dest string) error {
	thumb, err := ImageThumbnail(data, orientation, size)
	if err != nil {
		return err
	}
	return writeFileAtomic(dest, thumb)
}

// WriteVideoThumbnail extracts a frame one second into the stream, then
// runs it through the same normalization as a still image. The extracted
// frame inherits a container-style orientation if present, else identity.
func WriteVideoThumbnail(ctx context.Context, extractor FrameExtractor, videoPath, dest string, size int) error {
	frameTmp := dest + ".frame.tmp"
	defer os.Remove(frameTmp)

	if err := extractor.ExtractFrame(ctx, videoPath, videoFrameOffset, frameTmp, size); err != nil {
		return err
	}

	frame, err := os.ReadFile(frameTmp)
	if err != nil {
		return fmt.Errorf("failed to read extracted frame: %w", err)
	}

	return WriteImageThumbnail(frame, frameOrientation(frame), size, dest)
}

// frameOrientation reads an orientation tag from an extracted frame if
// one survived the extraction.
func frameOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	return exifInt(x, exif.Orientation)
}
