// Package scratch manages the temporary directory used for intermediate media
// files. Every name carries a random uuid so concurrent jobs never collide,
// and Set guarantees removal of whatever a stage still owns when it returns.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Dir is a scratch directory.
type Dir struct {
	root string
}

// New ensures root exists and returns a Dir rooted there.
func New(root string) (*Dir, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "memerelay")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir scratch dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

// Path allocates a unique, not yet existing file path such as
// <root>/video_<uuid>.mp4. ext may be given with or without the dot.
func (d *Dir) Path(kind, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(d.root, fmt.Sprintf("%s_%s%s", kind, uuid.NewString(), ext))
}

// Writable checks that files can be created in the directory.
func (d *Dir) Writable() error {
	f, err := os.CreateTemp(d.root, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Remove deletes path, treating an already missing file as success. Failures
// are logged and returned.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("scratch remove failed", slog.String("path", path), slog.Any("err", err), slog.String("component", "scratch"))
		return err
	}
	slog.Debug("scratch file removed", slog.String("path", path), slog.String("component", "scratch"))
	return nil
}

// Set tracks the paths a stage currently owns.
type Set struct {
	mu    sync.Mutex
	paths []string
}

// Track records path as owned by the stage and returns it.
func (s *Set) Track(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	return path
}

// Release hands path off to another owner; Cleanup will not touch it.
func (s *Set) Release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			return
		}
	}
}

// Owned returns a copy of the tracked paths.
func (s *Set) Owned() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Cleanup removes every tracked path and forgets them.
func (s *Set) Cleanup() {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()
	for _, p := range paths {
		_ = Remove(p)
	}
}
