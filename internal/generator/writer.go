package generator

import (
	"errors"
	"path"
	"strings"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type writeCategory string

const (
	categoryPage  writeCategory = "page"
	categoryIndex writeCategory = "index"
	categoryDump  writeCategory = "dump"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  string
	Category writeCategory
	NodeID   string
}

// artifactWriter abstracts where rendered output goes.
type artifactWriter interface {
	EnsureDir(path string) error
	WriteFile(req writeFileRequest) error
}

// newArtifactWriter returns a writer over store. A nil formatter disables
// pretty printing. Dry runs never touch the store.
func newArtifactWriter(store interfaces.FileStore, formatter interfaces.HTMLFormatter, dryRun bool) artifactWriter {
	if dryRun || store == nil {
		return noopWriter{}
	}
	return &storeWriter{
		store:     store,
		formatter: formatter,
		dirs:      map[string]struct{}{},
	}
}

type storeWriter struct {
	store     interfaces.FileStore
	formatter interfaces.HTMLFormatter
	dirs      map[string]struct{}
}

func (w *storeWriter) EnsureDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.store.MkdirAll(dir, dirPerm); err != nil {
		return domain.NewIOError("mkdir", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *storeWriter) WriteFile(req writeFileRequest) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := w.EnsureDir(path.Dir(req.Path)); err != nil {
		return err
	}
	content := req.Content
	if w.formatter != nil && req.Category != categoryDump {
		formatted, err := w.formatter.Format(content)
		if err != nil {
			return domain.NewRenderError(req.NodeID, "pretty print failed", err)
		}
		content = formatted
	}
	if err := w.store.WriteFile(req.Path, []byte(content), filePerm); err != nil {
		return domain.NewIOError("write", req.Path, err)
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(string) error { return nil }

func (noopWriter) WriteFile(writeFileRequest) error { return nil }
