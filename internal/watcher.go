package internal

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches an inbox directory tree and reports newly created
// media files so they can be imported automatically.
type Watcher struct {
	watcher    *fsnotify.Watcher
	classifier *Classifier
	events     chan string
	errors     chan error
	done       chan bool
}

func NewWatcher(inbox string, cl *Classifier) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cl == nil {
		cl = DefaultClassifier()
	}

	w := &Watcher{
		watcher:    fsWatcher,
		classifier: cl,
		events:     make(chan string, 64),
		errors:     make(chan error, 8),
		done:       make(chan bool),
	}

	if err := w.addRecursive(inbox); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watcher
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// processEvents filters raw fsnotify events down to media file creations.
// New subdirectories are added to the watch set as they appear.
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}

			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				w.watcher.Add(event.Name)
				continue
			}

			if w.classifier.Path(event.Name) == KindUnsupported {
				continue
			}

			select {
			case w.events <- event.Name:
			default:
				// Event channel is full, drop event
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel is full, drop error
			}

		case <-w.done:
			return
		}
	}
}

// Events returns the channel of created media file paths.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
