package core

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a config file whenever it is written and hands the
// result to a callback. The parent directory is watched rather than the file
// itself, so editors that replace the file on save are handled too.
type ConfigWatcher struct {
	path     string
	onChange func(*Config)

	mutex    sync.Mutex
	current  *Config
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
	wg       sync.WaitGroup
}

func NewConfigWatcher(path string, onChange func(*Config)) (*ConfigWatcher, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatch.Close()
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		onChange: onChange,
		current:  cfg,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

func (cw *ConfigWatcher) Current() *Config {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	return cw.current
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	for {
		select {
		case <-cw.done:
			return
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			cw.reload()
		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			LogWarn("config watcher error: %s", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		// Half-written files show up as parse errors; keep the last good config.
		LogWarn("ignoring config reload of %s: %s", cw.path, err)
		return
	}
	if err := ApplyConfig(cfg); err != nil {
		LogWarn("ignoring config reload of %s: %s", cw.path, err)
		return
	}

	cw.mutex.Lock()
	cw.current = cfg
	cw.mutex.Unlock()

	LogInfo("reloaded config from %s", cw.path)
	if cw.onChange != nil {
		cw.onChange(cfg)
	}
}

func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.isClosed {
		cw.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	cw.isClosed = true
	cw.mutex.Unlock()

	close(cw.done)
	err := cw.fsnotify.Close()
	cw.wg.Wait()
	return err
}
