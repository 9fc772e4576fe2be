package planner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/data/db"
)

const defaultDebounce = 200 * time.Millisecond

// FileWatcher reports debounced changes to a fixed set of files. It watches
// the parent directories so files that are replaced or created later are
// still seen.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	files       map[string]bool
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewFileWatcher watches the given files. Their directories must exist.
func NewFileWatcher(name string, files []string, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &FileWatcher{
		watcher:     watcher,
		files:       make(map[string]bool, len(files)),
		debounceDur: defaultDebounce,
		log:         log.With().Str("component", name).Logger(),
	}

	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run calls onChange once per burst of events until ctx is cancelled or
// the watcher is closed.
func (w *FileWatcher) Run(ctx context.Context, onChange func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}

			w.log.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("file system event")

			if !w.settle(ctx) {
				return
			}
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

// settle drains events until none arrive for the debounce window. It
// returns false when the watch ended meanwhile.
func (w *FileWatcher) settle(ctx context.Context) bool {
	debounce := time.NewTimer(w.debounceDur)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-w.watcher.Events:
			if !ok {
				return false
			}
			if !w.matches(e) {
				continue
			}
			debounce.Reset(w.debounceDur)
		case <-debounce.C:
			return true
		}
	}
}

func (w *FileWatcher) matches(e fsnotify.Event) bool {
	if e.Has(fsnotify.Chmod) && !e.Has(fsnotify.Write) {
		return false
	}
	abs, err := filepath.Abs(e.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

// NewDataWatcher watches the database files in dataDir and publishes
// todos.updated for writes made by other processes.
func NewDataWatcher(dataDir string, bus *eventbus.EventBus, log zerolog.Logger) (*Watcher, error) {
	file := filepath.Join(dataDir, db.FileName)
	fw, err := NewFileWatcher("data-watcher", []string{file, file + "-wal"}, log)
	if err != nil {
		return nil, err
	}

	return &Watcher{fw: fw, onChange: func() {
		bus.PublishTodosUpdated(eventbus.TodosUpdatedPayload{Change: eventbus.TodosExternal})
	}}, nil
}

// NewConfigWatcher reloads configPath on change and publishes
// config.reloaded. A file that fails to load keeps the previous config.
func NewConfigWatcher(configPath, dataDir string, bus *eventbus.EventBus, log zerolog.Logger) (*Watcher, error) {
	fw, err := NewFileWatcher("config-watcher", []string{configPath}, log)
	if err != nil {
		return nil, err
	}

	return &Watcher{fw: fw, onChange: func() {
		cfg, err := config.Load(configPath, dataDir)
		if err != nil {
			fw.log.Warn().Err(err).Str("path", configPath).Msg("config reload failed, keeping previous config")
			return
		}
		fw.log.Info().Str("path", configPath).Msg("config reloaded")
		bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: cfg})
	}}, nil
}

// Watcher binds a FileWatcher to its change handler.
type Watcher struct {
	fw       *FileWatcher
	onChange func()
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.fw.Run(ctx, w.onChange)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
