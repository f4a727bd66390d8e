package interfaces

import "os"

// FileStore is the narrow filesystem surface used by the pipeline. Paths are
// slash separated and relative to the store root.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
	Exists(path string) (bool, error)
}

// GlobResolver expands glob patterns into file paths. Patterns prefixed with
// "!" exclude matches. Results keep discovery order and never contain
// directories.
type GlobResolver interface {
	Resolve(patterns ...string) ([]string, error)
}
