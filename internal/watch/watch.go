package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single file.
type Watcher struct {
	debounce time.Duration
	logger   *zap.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func New(opts ...Option) *Watcher {
	w := &Watcher{debounce: DefaultDebounce, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch calls onChange after path is written, created or renamed into place,
// until ctx is cancelled. The parent directory is watched so that editors
// which save by rename keep being observed.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return eris.Wrapf(err, "resolve %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "create watcher")
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return eris.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, abs) {
				continue
			}
			w.logger.Debug("file event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
