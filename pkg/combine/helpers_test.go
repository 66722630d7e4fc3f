package combine

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"codebasetext/pkg/fsys"

	"github.com/spf13/afero"
)

const projectRoot = "/project"

// newProject writes files (relative to projectRoot) into an in-memory filesystem.
func newProject(t *testing.T, files map[string]string) *fsys.Provider {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll(projectRoot, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", projectRoot, err)
	}
	for name, content := range files {
		path := filepath.Join(projectRoot, filepath.FromSlash(name))
		if err := mem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := afero.WriteFile(mem, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fsys.New(mem)
}

// faultyFS fails Stat or ReadFile for selected absolute paths.
type faultyFS struct {
	*fsys.Provider
	statErrors map[string]error
	readErrors map[string]error
}

func (f *faultyFS) Stat(path string) (fs.FileInfo, error) {
	if err, ok := f.statErrors[path]; ok {
		return nil, err
	}
	return f.Provider.Stat(path)
}

func (f *faultyFS) ReadFile(path string) ([]byte, error) {
	if err, ok := f.readErrors[path]; ok {
		return nil, err
	}
	return f.Provider.ReadFile(path)
}

var errBoom = errors.New("boom")

type progressEvent struct {
	percent int
	message string
}

// recordingSink captures progress reports and optionally runs a hook on each.
type recordingSink struct {
	mu     sync.Mutex
	events []progressEvent
	hook   func(percent int, message string)
}

func (r *recordingSink) Report(percent int, message string) {
	r.mu.Lock()
	r.events = append(r.events, progressEvent{percent, message})
	r.mu.Unlock()
	if r.hook != nil {
		r.hook(percent, message)
	}
}

func (r *recordingSink) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.message
	}
	return out
}
