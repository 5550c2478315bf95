// Package watch reports archives that appear in a directory tree.
//
// The generation service returns one archive per group week. Users who
// download archives into a folder can leave noteverify watching it; each
// archive is reported once its writes have settled.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// DefaultExtension is the file extension watched when none is given.
const DefaultExtension = ".zip"

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 250 * time.Millisecond

// Ensure Watcher implements the interface.
var _ driven.ArchiveWatcher = (*Watcher)(nil)

// Options configures a Watcher.
type Options struct {
	// Extension filters files by suffix, case-insensitively. Defaults to DefaultExtension.
	Extension string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher watches a directory tree for archives.
type Watcher struct {
	watcher   *fsnotify.Watcher
	events    chan domain.ArchiveChange
	errors    chan error
	done      chan struct{}
	root      string
	extension string
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingFile
	closed  bool
}

// pendingFile is a file whose writes have not settled yet.
type pendingFile struct {
	timer *time.Timer
	op    domain.ArchiveOp
}

// New starts watching dir and every directory below it.
func New(dir string, opts Options) (*Watcher, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, dir[1:])
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if !strings.HasPrefix(opts.Extension, ".") {
		opts.Extension = "." + opts.Extension
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:   fsw,
		events:    make(chan domain.ArchiveChange, 64),
		errors:    make(chan error, 8),
		done:      make(chan struct{}),
		root:      dir,
		extension: strings.ToLower(opts.Extension),
		debounce:  opts.Debounce,
		pending:   make(map[string]*pendingFile),
	}

	if err := w.addRecursive(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

// addRecursive adds dir and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Removed while walking.
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			if errors.Is(err, os.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				w.sendError(err)
			}
			return
		}
	}

	if !w.matches(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		w.schedule(path, domain.ArchiveCreated)
	case event.Has(fsnotify.Write):
		w.schedule(path, domain.ArchiveWritten)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A file moved in arrives as Create under its new name.
		w.cancel(path)
	}
}

func (w *Watcher) matches(path string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(path)), w.extension)
}

// schedule reports path once it has been quiet for the debounce delay.
// A file created and then written is still reported as created.
func (w *Watcher) schedule(path string, op domain.ArchiveOp) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		if p.op == domain.ArchiveCreated {
			op = domain.ArchiveCreated
		}
	}

	p := &pendingFile{op: op}
	p.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.pending[path] != p {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.mu.Unlock()

		w.send(domain.ArchiveChange{Path: path, Op: op, At: time.Now()})
	})
	w.pending[path] = p
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) send(event domain.ArchiveChange) {
	select {
	case w.events <- event:
	case <-w.done:
	default:
		w.sendError(fmt.Errorf("watch: dropped %s, reader is behind", event.Path))
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns the channel of files ready to be read.
func (w *Watcher) Events() <-chan domain.ArchiveChange {
	return w.events
}

// Errors returns the channel of watch errors. Errors are dropped when
// nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Close stops the watcher. Pending files are not reported.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
