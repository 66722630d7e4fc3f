// Package fsys adapts an afero filesystem to the operations the snapshot
// pipeline performs: stat, read, recursive walk and ignore-file lookup.
package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// GitIgnoreFileName is the version-control ignore file read from the evaluation root.
const GitIgnoreFileName = ".gitignore"

// Provider implements filesystem access on top of an afero.Fs.
type Provider struct {
	fs afero.Fs
}

// New wraps an existing afero filesystem.
func New(fs afero.Fs) *Provider {
	return &Provider{fs: fs}
}

// NewOS returns a Provider backed by the operating system filesystem.
func NewOS() *Provider {
	return New(afero.NewOsFs())
}

// Fs exposes the underlying filesystem.
func (p *Provider) Fs() afero.Fs {
	return p.fs
}

// Stat returns file information, following symbolic links.
func (p *Provider) Stat(path string) (fs.FileInfo, error) {
	return p.fs.Stat(path)
}

// ReadFile returns the full contents of the file at path.
func (p *Provider) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(p.fs, path)
}

// Walk visits root and everything beneath it in lexical order.
func (p *Provider) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(p.fs, root, fn)
}

// ReadIgnoreFile returns the raw contents of root/.gitignore. A missing file
// is reported as found=false with a nil error.
func (p *Provider) ReadIgnoreFile(root string) ([]byte, bool, error) {
	content, err := afero.ReadFile(p.fs, filepath.Join(root, GitIgnoreFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return content, true, nil
}
