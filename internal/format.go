package internal

import (
	"path/filepath"
	"strings"
)

// MediaKind classifies a file into the broad import categories.
type MediaKind int

const (
	KindUnsupported MediaKind = iota
	KindImage
	KindVideo
)

// MarshalJSON stores the kind under its stable name, matching the
// catalog's on-disk record format.
func (k MediaKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *MediaKind) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "image":
		*k = KindImage
	case "video":
		*k = KindVideo
	default:
		*k = KindUnsupported
	}
	return nil
}

func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// Classifier decides which extensions count as images and which as
// videos. The zero sets come from DefaultClassifier; the config file can
// swap in its own lists.
type Classifier struct {
	images map[string]bool
	videos map[string]bool
}

// NewClassifier builds a classifier from extension allow-lists.
// Extensions are matched case-insensitively, with or without the leading
// dot.
func NewClassifier(imageExts, videoExts []string) *Classifier {
	return &Classifier{
		images: extensionSet(imageExts),
		videos: extensionSet(videoExts),
	}
}

func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[normalizeExt(ext)] = true
	}
	return set
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Extension maps a file extension to its MediaKind. Anything outside the
// allow-lists is KindUnsupported and must never reach a decoder.
func (c *Classifier) Extension(ext string) MediaKind {
	ext = normalizeExt(ext)
	switch {
	case c.images[ext]:
		return KindImage
	case c.videos[ext]:
		return KindVideo
	default:
		return KindUnsupported
	}
}

// Path classifies a path by its extension.
func (c *Classifier) Path(path string) MediaKind {
	return c.Extension(filepath.Ext(path))
}

var defaultClassifier = NewClassifier(
	[]string{".jpg", ".jpeg", ".png", ".gif", ".heic"},
	[]string{".mp4", ".mov", ".avi", ".mkv", ".m4v"},
)

// DefaultClassifier returns the built-in extension allow-lists.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// ClassifyExtension classifies with the default allow-lists.
func ClassifyExtension(ext string) MediaKind {
	return defaultClassifier.Extension(ext)
}

// ClassifyPath classifies a path by its extension with the default
// allow-lists.
func ClassifyPath(path string) MediaKind {
	return defaultClassifier.Path(path)
}
