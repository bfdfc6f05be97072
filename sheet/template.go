package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ggoodman/dnd-sheet-mcp/pdfform"
)

// DefaultTemplatePath is where the official fillable sheet is expected.
const DefaultTemplatePath = "docs/5E_CharacterSheet_Fillable.pdf"

// TemplateSource locates the template document.
type TemplateSource struct {
	fsys fs.FS
	name string
	// path is the on-disk location, set only for FileSource.
	path string
}

// FileSource reads the template from the OS filesystem.
func FileSource(path string) TemplateSource {
	return TemplateSource{
		fsys: os.DirFS(filepath.Dir(path)),
		name: filepath.Base(path),
		path: path,
	}
}

// ConfiguredSource returns FileSource(path). When path is
// DefaultTemplatePath and no file exists there, it serves the generated
// blank sheet instead and logs a warning. A missing file at any other path
// is left for Load to report.
func ConfiguredSource(path string, log *slog.Logger) TemplateSource {
	if filepath.Clean(path) != DefaultTemplatePath {
		return FileSource(path)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return FileSource(path)
	}
	src, err := BlankSource()
	if err != nil {
		return FileSource(path)
	}
	if log == nil {
		log = slog.Default()
	}
	log.Warn("sheet.template.fallback_blank", slog.String("path", path), slog.String("template", src.Name()))
	return src
}

// FSSource reads the template name from fsys.
func FSSource(fsys fs.FS, name string) TemplateSource {
	return TemplateSource{fsys: fsys, name: name}
}

// Name returns the base name of the template, safe to show to clients.
func (s TemplateSource) Name() string { return filepath.Base(s.name) }

// Load reads and parses the template, and checks that it carries form
// fields. All failures wrap ErrTemplateUnavailable.
func (s TemplateSource) Load() (*pdfform.Document, error) {
	if s.fsys == nil {
		return nil, fmt.Errorf("%w: no template configured", ErrTemplateUnavailable)
	}
	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateUnavailable, s.Name(), bareError(err))
	}
	doc, err := pdfform.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateUnavailable, s.Name(), err)
	}
	if _, err := doc.Fields(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateUnavailable, s.Name(), err)
	}
	return doc, nil
}

// TemplateCache loads the template on first use and shares the parsed
// document between fills. Failed loads are not cached.
type TemplateCache struct {
	src TemplateSource
	log *slog.Logger

	mu  sync.RWMutex
	doc *pdfform.Document
}

// NewTemplateCache returns a cache over src.
func NewTemplateCache(src TemplateSource, log *slog.Logger) *TemplateCache {
	if log == nil {
		log = slog.Default()
	}
	return &TemplateCache{src: src, log: log}
}

// Name returns the base name of the cached template.
func (c *TemplateCache) Name() string { return c.src.Name() }

// Get returns the parsed template. The document is shared and must not be
// modified; pdfform.Document.Fill returns a copy.
func (c *TemplateCache) Get() (*pdfform.Document, error) {
	c.mu.RLock()
	doc := c.doc
	c.mu.RUnlock()
	if doc != nil {
		return doc, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc != nil {
		return c.doc, nil
	}
	doc, err := c.src.Load()
	if err != nil {
		return nil, err
	}
	c.doc = doc
	c.log.Debug("sheet.template.load", slog.String("template", c.src.Name()), slog.Int("bytes", doc.Len()))
	return doc, nil
}

// Invalidate drops the cached document; the next Get reloads it.
func (c *TemplateCache) Invalidate() {
	c.mu.Lock()
	c.doc = nil
	c.mu.Unlock()
}

// Watch invalidates the cache whenever the template file changes on disk,
// until ctx is done. The containing directory is watched so that editors
// replacing the file by rename are noticed. It returns ErrNotWatchable for
// sources that are not on the OS filesystem.
func (c *TemplateCache) Watch(ctx context.Context) error {
	if c.src.path == "" {
		return ErrNotWatchable
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	dir := filepath.Dir(c.src.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("template watcher: %w", bareError(err))
	}
	target := filepath.Clean(c.src.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			c.Invalidate()
			c.log.Info("sheet.template.invalidate", slog.String("template", c.src.Name()), slog.String("op", ev.Op.String()))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("sheet.template.watch_error", slog.String("err", err.Error()))
		}
	}
}
