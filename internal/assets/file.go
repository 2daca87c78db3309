// Package assets ships the model.Provider implementations: a file provider
// for models authored as YAML documents on disk, and a Redis provider for
// models shared through a Redis instance.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/weave/pkg/model"
)

// FileProvider loads Markov models from <dir>/<id>.yml documents.
//
// Parsed models are cached; a filesystem watcher (see Watch) invalidates
// cache entries when the underlying file changes, so authoring loops see
// edits without restarting the process. The provider is safe for concurrent
// use.
type FileProvider struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*model.Model

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileProvider creates a provider rooted at dir. The directory must exist.
func NewFileProvider(dir string) (*FileProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models path is not a directory: %s", dir)
	}

	return &FileProvider{
		dir:   dir,
		cache: make(map[string]*model.Model),
	}, nil
}

// path maps a model id to its document path.
func (p *FileProvider) path(id string) string {
	return filepath.Join(p.dir, id+".yml")
}

// Exists reports whether a document for the model id is present.
func (p *FileProvider) Exists(id string) bool {
	p.mu.RLock()
	_, cached := p.cache[id]
	p.mu.RUnlock()
	if cached {
		return true
	}

	_, err := os.Stat(p.path(id))
	return err == nil
}

// Load parses the model document for id, serving from cache when possible.
func (p *FileProvider) Load(id string) (*model.Model, error) {
	p.mu.RLock()
	cached, ok := p.cache[id]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(p.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read model document: %w", err)
	}

	var m model.Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}

	p.mu.Lock()
	p.cache[id] = &m
	p.mu.Unlock()

	return &m, nil
}

// Invalidate drops the cache entry for id. The next Load re-reads the file.
func (p *FileProvider) Invalidate(id string) {
	p.mu.Lock()
	delete(p.cache, id)
	p.mu.Unlock()
}

// Watch starts a filesystem watcher on the models directory that invalidates
// cache entries when their documents are written, renamed or removed.
// Non-blocking; call Close to stop.
func (p *FileProvider) Watch() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch models directory: %w", err)
	}

	p.watcher = watcher
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(watcher, p.stopCh, p.doneCh)

	return nil
}

func (p *FileProvider) run(watcher *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".yml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				p.Invalidate(strings.TrimSuffix(name, ".yml"))
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; stale cache entries are still
			// refreshed by explicit Invalidate calls.
		}
	}
}

// Close stops the watcher if one is running. Safe to call without Watch.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	watcher := p.watcher
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.watcher = nil
	p.stopCh = nil
	p.doneCh = nil
	p.mu.Unlock()

	if watcher == nil {
		return nil
	}
	close(stopCh)
	err := watcher.Close()
	<-doneCh
	return err
}
