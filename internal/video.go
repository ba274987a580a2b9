package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
)

// ProbeResult is the raw output of a container probe, before shaping into
// VideoMetadata.
type ProbeResult struct {
	Width           int
	Height          int
	DurationSeconds float64
	Bitrate         int64
	ContainerFormat string
	CreationTime    time.Time
}

// VideoProber probes a video container for stream and format attributes.
// Injected so the pipeline is testable without ffprobe installed.
type VideoProber interface {
	Probe(ctx context.Context, path string) (*ProbeResult, error)
}

// FrameExtractor writes a single representative frame of a video to
// outPath as a JPEG, scaled to cover size x size.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, videoPath string, at time.Duration, outPath string, size int) error
}

// FFprobeProber shells out to ffprobe with JSON output.
type FFprobeProber struct {
	BinPath string
	Timeout time.Duration
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration   string            `json:"duration"`
		BitRate    string            `json:"bit_rate"`
		FormatName string            `json:"format_name"`
		Tags       map[string]string `json:"tags"`
	} `json:"format"`
}

func (p *FFprobeProber) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.BinPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	result, err := parseFFprobeOutput(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ffprobe output unparseable for %s: %w", path, err)
	}

	// ffprobe leaves creation_time out of some containers that still
	// carry it in the mvhd box.
	if result.CreationTime.IsZero() && isISOBMFF(path) {
		if t, err := mvhdCreationTime(path); err == nil {
			result.CreationTime = t
		}
	}

	return result, nil
}

func parseFFprobeOutput(data []byte) (*ProbeResult, error) {
	var parsed ffprobeOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	result := &ProbeResult{ContainerFormat: parsed.Format.FormatName}
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			result.Width = s.Width
			result.Height = s.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		result.DurationSeconds = d
	}
	if b, err := strconv.ParseInt(parsed.Format.BitRate, 10, 64); err == nil {
		result.Bitrate = b
	}
	if ct, ok := parsed.Format.Tags["creation_time"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, ct); err == nil {
			result.CreationTime = t
		}
	}
	return result, nil
}

// FFmpegFrameExtractor grabs a frame with ffmpeg, cover-scaled and
// center-cropped to a square.
type FFmpegFrameExtractor struct {
	BinPath string
	Timeout time.Duration
}

func (e *FFmpegFrameExtractor) ExtractFrame(ctx context.Context, videoPath string, at time.Duration, outPath string, size int) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d", size, size, size, size)
	cmd := exec.CommandContext(ctx, e.BinPath,
		"-ss", fmt.Sprintf("%.3f", at.Seconds()),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", filter,
		"-f", "image2",
		"-y",
		outPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg frame extraction failed for %s: %w", videoPath, err)
	}
	return nil
}

// ShapeVideoMetadata converts a raw probe result into the stored metadata
// record.
func ShapeVideoMetadata(probe *ProbeResult) *VideoMetadata {
	return &VideoMetadata{
		Width:           probe.Width,
		Height:          probe.Height,
		DurationSeconds: probe.DurationSeconds,
		Bitrate:         probe.Bitrate,
		ContainerFormat: probe.ContainerFormat,
		CreationTime:    probe.CreationTime,
	}
}

// appleEpochOffset is the number of seconds between the Apple/Mac epoch
// (1904-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const appleEpochOffset = 2082844800

func isISOBMFF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v":
		return true
	}
	return false
}

// mvhdCreationTime reads the moov>mvhd box of an ISO BMFF container and
// returns its creation time.
func mvhdCreationTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read mp4 structure: %w", err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		creation := mvhd.GetCreationTime()
		if creation == 0 {
			return time.Time{}, fmt.Errorf("mvhd creation time is zero")
		}
		t := time.Unix(int64(creation)-appleEpochOffset, 0).UTC()
		if t.Year() < 1970 {
			return time.Time{}, fmt.Errorf("mvhd creation time predates Unix epoch")
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("mvhd box not found in %s", path)
}
