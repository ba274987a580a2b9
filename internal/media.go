package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScanMediaFiles scans a directory recursively and returns the media
// files the classifier accepts. A nil classifier means the built-in
// allow-lists. Used when the import command is handed a folder instead
// of explicit file paths.
func ScanMediaFiles(inputDir string, cl *Classifier) ([]string, error) {
	if cl == nil {
		cl = DefaultClassifier()
	}
	var files []string
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if cl.Path(path) != KindUnsupported {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}
	return files, nil
}

// ExpandPaths resolves a mixed list of files and directories into a flat
// list of candidate file paths. Unsupported files are kept; the pipeline
// skips them itself so the skip shows up in the session manifest.
func ExpandPaths(paths []string, cl *Classifier) ([]string, error) {
	var files []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("path does not exist: %s", p)
		}
		if info.IsDir() {
			scanned, err := ScanMediaFiles(abs, cl)
			if err != nil {
				return nil, err
			}
			files = append(files, scanned...)
			continue
		}
		files = append(files, abs)
	}
	return files, nil
}
