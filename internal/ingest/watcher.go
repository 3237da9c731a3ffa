package ingest

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DocumentSink receives content updates for file-backed documents.
type DocumentSink interface {
	DocumentIDBySourcePath(path string) (string, error)
	TouchDocument(id, content string, updatedAt time.Time) error
}

// Watcher keeps file-backed documents current: when a watched file is
// written, its document's content and timestamp are refreshed so the
// next validation run sees the latest source.
type Watcher struct {
	sink    DocumentSink
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	touched int

	done     chan struct{}
	closeOne sync.Once

	onChange func(docID string)
}

// NewWatcher starts watching the given files. onChange, if non-nil, is
// called with the document id after each successful refresh.
func NewWatcher(sink DocumentSink, paths []string, onChange func(docID string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		sink:     sink,
		watcher:  fsw,
		done:     make(chan struct{}),
		onChange: onChange,
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.refresh(event.Name)
		case <-w.watcher.Errors:
			// Keep watching; a missed event only delays the refresh
			// until the next write.
		}
	}
}

// refresh re-reads a changed file and pushes its content into the sink.
func (w *Watcher) refresh(path string) {
	id, err := w.sink.DocumentIDBySourcePath(path)
	if err != nil || id == "" {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := w.sink.TouchDocument(id, string(content), time.Now()); err != nil {
		return
	}

	w.mu.Lock()
	w.touched++
	w.mu.Unlock()

	if w.onChange != nil {
		w.onChange(id)
	}
}

// Touched reports how many document refreshes the watcher has applied.
func (w *Watcher) Touched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touched
}

// Close stops the watcher.
func (w *Watcher) Close() {
	w.closeOne.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
