// Package watch keeps a layered nccl configuration current as its files
// change on disk.
//
// The directories holding the layer files are watched rather than the files
// themselves, since most editors save by writing a new file and renaming it
// over the old one. Bursts of events are coalesced, and every successful
// reload produces a new Snapshot for subscribers.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shcv/nccl"
	"github.com/shcv/nccl/loader"
)

// ErrClosed is returned by Run once the Watcher has been closed.
var ErrClosed = errors.New("watcher closed")

// Snapshot is one successfully loaded version of the configuration.
type Snapshot struct {
	ID       uuid.UUID
	Config   *nccl.Config
	LoadedAt time.Time
}

// Handler is called with every new Snapshot.
type Handler func(snap *Snapshot)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the Watcher waits after the last file event
// before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *logrus.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watcher reloads a set of layer files whenever one of them changes.
type Watcher struct {
	loader *loader.Loader
	paths  []string
	files  map[string]struct{}

	fsw      *fsnotify.Watcher
	log      *logrus.Logger
	debounce time.Duration

	mu       sync.RWMutex
	current  *Snapshot
	handlers []Handler

	errs      chan error
	closeCh   chan struct{}
	closeOnce sync.Once
}

// New loads paths with l, highest priority first, and starts watching the
// directories that hold them. Nothing is reloaded until Run is called.
func New(l *loader.Loader, paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}

	w := &Watcher{
		loader:   l,
		paths:    paths,
		files:    make(map[string]struct{}),
		debounce: 100 * time.Millisecond,
		errs:     make(chan error, 16),
		closeCh:  make(chan struct{}),
	}

	w.log = logrus.New()
	w.log.SetOutput(io.Discard)

	for _, opt := range opts {
		opt(w)
	}

	snap, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = snap

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}

	dirs := make(map[string]struct{})

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolving %s", path)
		}

		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)

		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
		dirs[dir] = struct{}{}
	}

	w.fsw = fsw

	w.log.WithFields(logrus.Fields{
		"id":    snap.ID,
		"files": len(w.files),
		"dirs":  len(dirs),
	}).Info("watching configuration")

	return w, nil
}

func (w *Watcher) load() (*Snapshot, error) {
	cfg, err := w.loader.LoadLayered(w.paths...)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:       uuid.New(),
		Config:   cfg,
		LoadedAt: time.Now(),
	}, nil
}

// Current returns the most recent Snapshot.
func (w *Watcher) Current() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Subscribe registers h to be called with every Snapshot loaded after this
// call. Handlers run on the goroutine calling Run.
func (w *Watcher) Subscribe(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Errors returns the channel failed reloads and watch errors are delivered
// on. Errors are dropped while the channel is full. It is never closed.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Run processes file events until ctx is done or the Watcher is closed. It
// returns ctx.Err() or ErrClosed. Run must not be called more than once.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.closeCh:
			return ErrClosed

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}

			if !w.relevant(ev) {
				continue
			}

			w.log.WithFields(logrus.Fields{
				"path": ev.Name,
				"op":   ev.Op.String(),
			}).Debug("file changed")

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}

			w.log.WithError(err).Warn("watch error")
			w.sendError(errors.Wrap(err, "watching"))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether ev touches one of the layer files in a way that
// can change its contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}

	_, ok := w.files[abs]
	return ok
}

// reload loads a new Snapshot and hands it to subscribers. On failure the
// current Snapshot stays in place.
func (w *Watcher) reload() {
	prev := w.Current()

	snap, err := w.load()
	if err != nil {
		w.log.WithFields(logrus.Fields{
			"id": prev.ID,
		}).WithError(err).Warn("reload failed, keeping previous configuration")

		w.sendError(err)
		return
	}

	if snap.Config.Equal(prev.Config) {
		w.log.WithField("id", prev.ID).Debug("configuration unchanged")
		return
	}

	w.mu.Lock()
	w.current = snap
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.log.WithFields(logrus.Fields{
		"id":       snap.ID,
		"previous": prev.ID,
		"keys":     snap.Config.Len(),
	}).Info("configuration reloaded")

	for _, h := range handlers {
		h(snap)
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error

	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
	})
	return err
}
