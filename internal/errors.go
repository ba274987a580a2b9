package internal

import (
	"fmt"
	"strings"
)

// ErrorCategory represents the type of error encountered during import
type ErrorCategory string

const (
	ErrorCategoryIO           ErrorCategory = "io_error"           // File system, permissions, disk space
	ErrorCategoryUnsupported  ErrorCategory = "unsupported_format" // Extension outside the allow-list
	ErrorCategoryMetadata     ErrorCategory = "metadata_warning"   // EXIF/container metadata malformed
	ErrorCategoryTranscode    ErrorCategory = "transcode_error"    // HEIC to JPEG conversion failed
	ErrorCategoryProbe        ErrorCategory = "probe_error"        // Video container probe failed
	ErrorCategoryStorage      ErrorCategory = "storage_error"      // Archive directory/file write failed
	ErrorCategoryThumbnail    ErrorCategory = "thumbnail_error"    // Preview generation failed
	ErrorCategoryNotProcessed ErrorCategory = "not_processed"      // Batch stopped before the file was attempted
	ErrorCategoryUnknown      ErrorCategory = "unknown_error"      // Unexpected errors
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level issues (disk full, permissions)
	ErrorSeverityError    ErrorSeverity = "error"    // File-level issues, file is skipped
	ErrorSeverityWarning  ErrorSeverity = "warning"  // Recoverable, import proceeds degraded
)

// ProcessError represents a categorized error during file processing
type ProcessError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string // User-friendly suggestion to fix
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error {
	return e.OriginalErr
}

// newProcessError builds a ProcessError for a known pipeline stage.
func newProcessError(path string, cat ErrorCategory, sev ErrorSeverity, err error) *ProcessError {
	return &ProcessError{FilePath: path, Category: cat, Severity: sev, OriginalErr: err}
}

// CategorizeError analyzes an uncategorized error and assigns category,
// severity and a suggestion based on its message.
func CategorizeError(filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}
	if procErr, ok := err.(*ProcessError); ok {
		return procErr
	}

	errStr := strings.ToLower(err.Error())
	procErr := &ProcessError{
		FilePath:    filePath,
		OriginalErr: err,
	}

	switch {
	// Disk/Filesystem errors (CRITICAL)
	case strings.Contains(errStr, "no space left"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Free up disk space on the archive drive and retry the import"

	case strings.Contains(errStr, "permission denied"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Check file permissions on both source and archive directories"

	case strings.Contains(errStr, "read-only file system"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Archive filesystem is read-only - check mount options"

	case strings.Contains(errStr, "too many open files"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "System file descriptor limit reached - lower the worker count or increase ulimit"

	// I/O errors (ERROR)
	case strings.Contains(errStr, "input/output error"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "I/O error - check disk health with SMART tools"

	case strings.Contains(errStr, "no such file"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Source file disappeared during import - check if external drive disconnected"

	// HEIC conversion
	case strings.Contains(errStr, "heic") || strings.Contains(errStr, "heif"):
		procErr.Category = ErrorCategoryTranscode
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "HEIC file could not be converted - verify the file opens in other software"

	// Video probe / frame extraction
	case strings.Contains(errStr, "ffprobe") || strings.Contains(errStr, "ffmpeg"):
		procErr.Category = ErrorCategoryProbe
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Video tool failed - check that ffmpeg/ffprobe are installed and the file is playable"

	// Metadata errors (WARNING - file can still be imported)
	case strings.Contains(errStr, "exif") || strings.Contains(errStr, "metadata"):
		procErr.Category = ErrorCategoryMetadata
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File imported with partial metadata - camera fields could not be read"

	// Unsupported format
	case strings.Contains(errStr, "unsupported") || strings.Contains(errStr, "unknown format"):
		procErr.Category = ErrorCategoryUnsupported
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File format not recognized - will be skipped"

	// Default: unknown error
	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Unexpected error - check the import log for details"
	}

	return procErr
}

// ErrorStats tracks error statistics during an import batch
type ErrorStats struct {
	Total           int
	Critical        int
	Errors          int
	Warnings        int
	ByCategory      map[ErrorCategory]int
	LastErrors      []*ProcessError // Last 5 errors for quick diagnosis
	CriticalStorage int             // Archive-side critical failures
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityCritical:
		s.Critical++
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}
	if err.Severity == ErrorSeverityCritical && err.Category == ErrorCategoryStorage {
		s.CriticalStorage++
	}

	// Keep last 5 errors
	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// ShouldAbort returns true if the import should stop scheduling new
// files. Only archive-side critical failures qualify: an unreadable or
// corrupt source file is that file's problem, but a full or unwritable
// archive fails every file after it the same way.
func (s *ErrorStats) ShouldAbort() (bool, string) {
	if s.CriticalStorage > 0 {
		return true, "Critical archive storage error detected - aborting to prevent data loss"
	}
	return false, ""
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("\nImport encountered %d errors:\n\n", s.Total))

	if s.Critical > 0 {
		report.WriteString(fmt.Sprintf("  Critical: %d (system-level issues)\n", s.Critical))
	}
	if s.Errors > 0 {
		report.WriteString(fmt.Sprintf("  Errors:   %d (file-level issues)\n", s.Errors))
	}
	if s.Warnings > 0 {
		report.WriteString(fmt.Sprintf("  Warnings: %d (recoverable issues)\n", s.Warnings))
	}

	report.WriteString("\nError categories:\n")
	for cat, count := range s.ByCategory {
		report.WriteString(fmt.Sprintf("  - %s: %d\n", cat, count))
	}

	report.WriteString("\nRecent errors:\n")
	for i, err := range s.LastErrors {
		report.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, err.FilePath))
		report.WriteString(fmt.Sprintf("   Category: %s | Severity: %s\n", err.Category, err.Severity))
		report.WriteString(fmt.Sprintf("   Error: %v\n", err.OriginalErr))
		if err.Suggestion != "" {
			report.WriteString(fmt.Sprintf("   Suggestion: %s\n", err.Suggestion))
		}
	}

	return report.String()
}
