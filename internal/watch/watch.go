// Package watch runs an advisory file watcher that flags barrel files as
// they are written, before the pre-commit gate would reject them.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chmouel/hookgate/internal/barrel"
	"github.com/chmouel/hookgate/internal/classify"
	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/log"
	"github.com/chmouel/hookgate/internal/ui"
)

// Debounce is the per-file quiet period; editors fire several events per
// save.
const Debounce = 600 * time.Millisecond

// skipDirs are directory names never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	".next":        {},
	"node_modules": {},
	"dist":         {},
	"coverage":     {},
}

// Service watches a source tree and reports barrel files on write.
type Service struct {
	Root    string
	Printer *ui.Printer

	classifier *classify.Classifier
	watcher    *fsnotify.Watcher
	done       chan struct{}
	started    bool

	mu       sync.Mutex
	paths    map[string]struct{}
	lastSeen map[string]time.Time
}

// New builds a Service rooted at root.
func New(cfg *config.Config, root string, printer *ui.Printer) (*Service, error) {
	classifier, err := classify.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		Root:       root,
		Printer:    printer,
		classifier: classifier,
		paths:      make(map[string]struct{}),
		lastSeen:   make(map[string]time.Time),
	}, nil
}

// Start registers the watch tree and launches the event loop.
func (s *Service) Start() error {
	if s.started {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher
	s.done = make(chan struct{})
	s.started = true
	s.addWatchTree(s.Root)

	go s.run()
	return nil
}

// Stop shuts the watcher down.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	close(s.done)
	s.started = false
	_ = s.watcher.Close()
}

// Wait blocks until Stop is called.
func (s *Service) Wait() {
	<-s.done
}

func (s *Service) run() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				s.maybeWatchNewDir(event.Name)
			}
			if s.shouldCheck(event.Name, time.Now()) {
				s.CheckFile(event.Name)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// shouldCheck applies the per-file debounce window.
func (s *Service) shouldCheck(path string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastSeen[path]
	if ok && now.Sub(last) < Debounce {
		return false
	}
	s.lastSeen[path] = now
	return true
}

// CheckFile inspects one file and warns when it is a barrel. Files outside
// the gate's scope, and files that vanished between event and read, are
// ignored.
func (s *Service) CheckFile(path string) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if len(s.classifier.Testable([]string{rel})) == 0 {
		return
	}
	content, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return
	}
	if !barrel.IsBarrel(string(content)) {
		return
	}
	s.Printer.Warnf("Barrel file detected: %s", rel)
	s.Printer.Mutedf("  Re-export-only modules are rejected at commit time; import from the source module instead.")
}

func (s *Service) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if _, skip := skipDirs[filepath.Base(path)]; skip {
		return
	}
	s.addWatchDir(path)
}

func (s *Service) addWatchDir(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[path]; ok {
		return
	}
	if err := s.watcher.Add(path); err != nil {
		log.Printf("watcher add failed for %s: %v", path, err)
		return
	}
	s.paths[path] = struct{}{}
}

func (s *Service) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := skipDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}
		s.addWatchDir(path)
		return nil
	})
}
