package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session records one import run as an append-only JSONL manifest under
// archive/imports/<session-id>/manifest.jsonl.
type Session struct {
	ID          string
	ArchiveRoot string
	SessionDir  string

	mu       sync.Mutex
	manifest *os.File
	stats    SessionStats
}

// SessionStats tracks counters for an import run.
type SessionStats struct {
	Scanned  int
	Imported int
	Skipped  int
	Failed   int
	Warnings int
}

// ManifestEvent is a single line in the manifest log.
type ManifestEvent struct {
	Event     string `json:"event"`
	Ts        string `json:"ts"`
	Src       string `json:"src,omitempty"`
	Dest      string `json:"dest,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	AssetID   string `json:"asset_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Error     string `json:"error,omitempty"`

	ErrorCategory   string `json:"error_category,omitempty"`
	ErrorSeverity   string `json:"error_severity,omitempty"`
	ErrorSuggestion string `json:"error_suggestion,omitempty"`

	// Session start/end fields
	TotalFiles int `json:"total_files,omitempty"`
	Imported   int `json:"imported,omitempty"`
	Skipped    int `json:"skipped,omitempty"`
	Failed     int `json:"failed,omitempty"`
	Warnings   int `json:"warnings,omitempty"`
}

// NewSession creates the session directory and opens the manifest.
func NewSession(archiveRoot string) (*Session, error) {
	sessionID := time.Now().Format("2006-01-02-150405")
	sessionDir := filepath.Join(archiveRoot, "imports", sessionID)

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	manifestPath := filepath.Join(sessionDir, "manifest.jsonl")
	manifest, err := os.OpenFile(manifestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest file: %w", err)
	}

	return &Session{
		ID:          sessionID,
		ArchiveRoot: archiveRoot,
		SessionDir:  sessionDir,
		manifest:    manifest,
	}, nil
}

// LogStart writes the session start event.
func (s *Session) LogStart(totalFiles int) error {
	s.mu.Lock()
	s.stats.Scanned = totalFiles
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:      "session_start",
		Ts:         time.Now().UTC().Format(time.RFC3339),
		TotalFiles: totalFiles,
	})
}

// LogImported records a successfully archived asset.
func (s *Session) LogImported(src string, asset *ImportedAsset) error {
	s.mu.Lock()
	s.stats.Imported++
	s.mu.Unlock()

	size := int64(0)
	hash := ""
	if fi, err := os.Stat(asset.StoredPath); err == nil {
		size = fi.Size()
	}
	if h, err := fileHash(asset.StoredPath); err == nil {
		hash = h
	}

	return s.writeEvent(ManifestEvent{
		Event:     "imported",
		Ts:        time.Now().UTC().Format(time.RFC3339),
		Src:       src,
		Dest:      asset.StoredPath,
		Thumbnail: asset.ThumbnailPath,
		AssetID:   asset.ID,
		Kind:      asset.Kind.String(),
		Hash:      hash,
		Size:      size,
	})
}

// LogSkipped records a file skipped for an unsupported extension.
func (s *Session) LogSkipped(src string) error {
	s.mu.Lock()
	s.stats.Skipped++
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event: "skipped_unsupported",
		Ts:    time.Now().UTC().Format(time.RFC3339),
		Src:   src,
	})
}

// LogWarning records a non-fatal degradation (partial metadata, missing
// thumbnail).
func (s *Session) LogWarning(src string, procErr *ProcessError) error {
	s.mu.Lock()
	s.stats.Warnings++
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:           "warning",
		Ts:              time.Now().UTC().Format(time.RFC3339),
		Src:             src,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

// LogError records a per-file failure.
func (s *Session) LogError(src string, procErr *ProcessError) error {
	s.mu.Lock()
	s.stats.Failed++
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:           "error",
		Ts:              time.Now().UTC().Format(time.RFC3339),
		Src:             src,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

// LogEnd writes the session end event with final counters.
func (s *Session) LogEnd() error {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:      "session_end",
		Ts:         time.Now().UTC().Format(time.RFC3339),
		TotalFiles: stats.Scanned,
		Imported:   stats.Imported,
		Skipped:    stats.Skipped,
		Failed:     stats.Failed,
		Warnings:   stats.Warnings,
	})
}

// Stats returns the current session statistics.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close closes the manifest file.
func (s *Session) Close() error {
	if s.manifest != nil {
		return s.manifest.Close()
	}
	return nil
}

// writeEvent appends a manifest event as a JSON line.
func (s *Session) writeEvent(event ManifestEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.manifest.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to manifest: %w", err)
	}
	return s.manifest.Sync()
}
