// Package storage adapts go-billy filesystems to interfaces.FileStore so the
// pipeline runs unchanged against the OS or an in-memory tree.
package storage

import (
	"errors"
	"os"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// ErrPathRequired is returned for operations given an empty path.
var ErrPathRequired = errors.New("storage: path is required")

// Store is a FileStore backed by a billy.Filesystem.
type Store struct {
	fs billy.Filesystem
}

var _ interfaces.FileStore = (*Store)(nil)

// New wraps an existing filesystem.
func New(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// NewOS returns a store rooted at dir on the host filesystem.
func NewOS(dir string) *Store {
	return New(osfs.New(dir))
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Store {
	return New(memfs.New())
}

// Filesystem exposes the underlying billy filesystem for discovery walks.
func (s *Store) Filesystem() billy.Filesystem {
	return s.fs
}

func (s *Store) ReadFile(name string) ([]byte, error) {
	name, err := clean(name)
	if err != nil {
		return nil, err
	}
	return util.ReadFile(s.fs, name)
}

func (s *Store) WriteFile(name string, data []byte, perm os.FileMode) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	return util.WriteFile(s.fs, name, data, perm)
}

func (s *Store) MkdirAll(name string, perm os.FileMode) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	if name == "." {
		return nil
	}
	return s.fs.MkdirAll(name, perm)
}

func (s *Store) RemoveAll(name string) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	if name == "." {
		return errors.New("storage: refusing to remove the store root")
	}
	return util.RemoveAll(s.fs, name)
}

func (s *Store) Exists(name string) (bool, error) {
	name, err := clean(name)
	if err != nil {
		return false, err
	}
	if _, err := s.fs.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func clean(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return "", ErrPathRequired
	}
	return path.Clean(name), nil
}
