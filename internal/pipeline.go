package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Pipeline imports a batch of media files into the archive. Individual
// file imports are independent, so they run on a bounded worker pool;
// one bad input never aborts the batch.
type Pipeline struct {
	Layout        *Layout
	Classifier    *Classifier // optional, defaults to the built-in extension lists
	Workers       int
	ThumbnailSize int
	DryRun        bool

	Prober   VideoProber
	Frames   FrameExtractor
	ExifTool *ExifToolExtractor // optional, config use_exiftool

	Logger  *Logger  // optional
	Session *Session // optional
}

// ImportFailure is one file the pipeline could not import.
type ImportFailure struct {
	Path string
	Err  *ProcessError
}

// BatchResult is what a batch import hands back to the caller: the
// successes, the per-file failures and the unsupported skips. Order
// follows pool completion, not input order.
type BatchResult struct {
	Assets   []*ImportedAsset
	Failures []*ImportFailure
	Skipped  []string
	Stats    *ErrorStats
}

// Run imports the given paths. The only batch-level failure is an
// inaccessible archive root; everything else is isolated per file.
// Cancelling the context stops dispatching new files while in-flight
// imports finish cleanly.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*BatchResult, error) {
	if err := p.Layout.EnsureRoot(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	result := &BatchResult{Stats: NewErrorStats()}
	var mu sync.Mutex
	abort := false

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				p.runOne(ctx, path, result, &mu, &abort)
			}
		}()
	}

	next := 0
dispatch:
	for next < len(paths) {
		mu.Lock()
		stop := abort
		mu.Unlock()
		if stop {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- paths[next]:
			next++
		}
	}
	close(jobs)
	wg.Wait()

	// Files never handed to a worker are still part of the batch; record
	// them so every input shows up in exactly one of the result lists.
	for _, path := range paths[next:] {
		procErr := &ProcessError{
			FilePath:    path,
			Category:    ErrorCategoryNotProcessed,
			Severity:    ErrorSeverityWarning,
			OriginalErr: fmt.Errorf("import stopped before this file was processed"),
			Suggestion:  "Re-run the import with this file once the batch issue is resolved",
		}
		if p.Session != nil {
			p.Session.LogError(path, procErr)
		}
		result.Failures = append(result.Failures, &ImportFailure{Path: path, Err: procErr})
	}

	return result, nil
}

// runOne wraps one file import with the isolation boundary: classify,
// import, record the outcome.
func (p *Pipeline) runOne(ctx context.Context, path string, result *BatchResult, mu *sync.Mutex, abort *bool) {
	if p.classify(path) == KindUnsupported {
		p.logf("skipping unsupported file: %s", path)
		if p.Session != nil {
			p.Session.LogSkipped(path)
		}
		mu.Lock()
		result.Skipped = append(result.Skipped, path)
		mu.Unlock()
		return
	}

	asset, procErr := p.importOne(ctx, path)

	mu.Lock()
	defer mu.Unlock()

	if procErr != nil {
		p.logf("error importing %s: %v", path, procErr)
		if p.Session != nil {
			p.Session.LogError(path, procErr)
		}
		result.Stats.Add(procErr)
		result.Failures = append(result.Failures, &ImportFailure{Path: path, Err: procErr})
		if stop, reason := result.Stats.ShouldAbort(); stop && !*abort {
			*abort = true
			p.logf("aborting batch: %s", reason)
		}
		return
	}

	if asset != nil {
		if p.Session != nil {
			p.Session.LogImported(path, asset)
		}
		result.Assets = append(result.Assets, asset)
	}
}

// importOne runs the per-file stages. Any returned ProcessError excludes
// the file from the batch result; a nil asset with nil error means the
// file was handled without producing an asset (dry run).
func (p *Pipeline) importOne(ctx context.Context, path string) (*ImportedAsset, *ProcessError) {
	kind := p.classify(path)
	ext := strings.ToLower(filepath.Ext(path))

	modTime, err := getFileModTime(path)
	if err != nil {
		return nil, CategorizeError(path, fmt.Errorf("failed to stat source: %w", err))
	}

	ingest := time.Now()

	if kind == KindVideo {
		return p.importVideo(ctx, path, ext, ingest, modTime)
	}
	return p.importImage(ctx, path, ext, ingest, modTime)
}

func (p *Pipeline) importImage(ctx context.Context, path, ext string, ingest time.Time, modTime time.Time) (*ImportedAsset, *ProcessError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, CategorizeError(path, fmt.Errorf("failed to read source: %w", err))
	}

	storedExt := ext
	var meta *ImageMetadata
	var warn *ProcessError

	if ext == ".heic" {
		jpegData, procErr := TranscodeHeicToJpeg(path, data)
		if procErr != nil {
			return nil, procErr
		}
		meta, warn = ExtractHeicMetadata(path, data, jpegData)
		data = jpegData
		storedExt = ".jpg"
	} else if p.ExifTool != nil {
		meta, warn = p.ExifTool.ExtractImage(path)
	} else {
		meta, warn = ExtractImageMetadata(path, data)
	}
	p.warn(path, warn)

	capturedAt := ResolveCaptureDate(meta, nil, modTime)

	if p.DryRun {
		p.logf("[dry-run] would import %s -> %s", path, filepath.Join(p.Layout.DayDir(capturedAt), StoredName(ingest, filepath.Base(path), storedExt)))
		return nil, nil
	}

	dayDir, err := p.Layout.EnsureDayDirs(capturedAt)
	if err != nil {
		return nil, storageError(path, err)
	}

	storedPath := filepath.Join(dayDir, StoredName(ingest, filepath.Base(path), storedExt))
	if err := writeFileAtomic(storedPath, data); err != nil {
		return nil, storageError(path, fmt.Errorf("failed to write original: %w", err))
	}

	orientation := 0
	if meta != nil {
		orientation = meta.Orientation
	}
	thumbPath := filepath.Join(p.Layout.ThumbDir(capturedAt), ThumbName(ingest, filepath.Base(path)))
	if err := WriteImageThumbnail(data, orientation, p.ThumbnailSize, thumbPath); err != nil {
		// Archived originals are worth keeping even without a preview.
		p.warn(path, newProcessError(path, ErrorCategoryThumbnail, ErrorSeverityWarning, err))
		thumbPath = ""
	}

	return &ImportedAsset{
		ID:             NewAssetID(ingest),
		StoredPath:     storedPath,
		OriginalName:   filepath.Base(path),
		CapturedAt:     capturedAt,
		Image:          meta,
		ThumbnailPath:  thumbPath,
		OriginalFormat: ext,
		Kind:           KindImage,
	}, nil
}

func (p *Pipeline) importVideo(ctx context.Context, path, ext string, ingest time.Time, modTime time.Time) (*ImportedAsset, *ProcessError) {
	probe, err := p.Prober.Probe(ctx, path)
	if err != nil {
		return nil, newProcessError(path, ErrorCategoryProbe, ErrorSeverityError, err)
	}
	meta := ShapeVideoMetadata(probe)

	capturedAt := ResolveCaptureDate(nil, meta, modTime)

	if p.DryRun {
		p.logf("[dry-run] would import %s -> %s", path, filepath.Join(p.Layout.DayDir(capturedAt), StoredName(ingest, filepath.Base(path), ext)))
		return nil, nil
	}

	dayDir, err := p.Layout.EnsureDayDirs(capturedAt)
	if err != nil {
		return nil, storageError(path, err)
	}

	storedPath := filepath.Join(dayDir, StoredName(ingest, filepath.Base(path), ext))
	if err := copyFileAtomic(path, storedPath); err != nil {
		return nil, storageError(path, fmt.Errorf("failed to copy original: %w", err))
	}

	thumbPath := filepath.Join(p.Layout.ThumbDir(capturedAt), ThumbName(ingest, filepath.Base(path)))
	if err := WriteVideoThumbnail(ctx, p.Frames, path, thumbPath, p.ThumbnailSize); err != nil {
		p.warn(path, newProcessError(path, ErrorCategoryThumbnail, ErrorSeverityWarning, err))
		thumbPath = ""
	}

	return &ImportedAsset{
		ID:             NewAssetID(ingest),
		StoredPath:     storedPath,
		OriginalName:   filepath.Base(path),
		CapturedAt:     capturedAt,
		Video:          meta,
		ThumbnailPath:  thumbPath,
		OriginalFormat: ext,
		Kind:           KindVideo,
	}, nil
}

func (p *Pipeline) classify(path string) MediaKind {
	if p.Classifier != nil {
		return p.Classifier.Path(path)
	}
	return ClassifyPath(path)
}

// storageError categorizes an archive-side write failure. These carry the
// storage category regardless of the underlying cause so the abort check
// can tell a broken archive apart from a broken source file.
func storageError(path string, err error) *ProcessError {
	procErr := CategorizeError(path, err)
	procErr.Category = ErrorCategoryStorage
	return procErr
}

func (p *Pipeline) warn(path string, procErr *ProcessError) {
	if procErr == nil {
		return
	}
	p.logf("warning for %s: %v", path, procErr)
	if p.Session != nil {
		p.Session.LogWarning(path, procErr)
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Log(format, args...)
	}
}
