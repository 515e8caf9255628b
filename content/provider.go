package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
)

// OverlaySuffix names the machine-filled overlay file next to a table.
const OverlaySuffix = ".overlay.json"

var candidateNames = []string{
	"%s.json",
	"%s.yaml",
	"%s.yml",
	"%s.toml",
	"%s/translation.json",
	"%s/translation.yaml",
}

// DirProvider loads tables from a file system on first use and memoizes
// them. Concurrent loads of the same language share one read.
type DirProvider struct {
	fsys     fs.FS
	catalog  *lingoseo.Catalog
	logger   logging.Logger
	validate bool
	overlays bool

	mu       sync.Mutex
	tables   map[lingoseo.Language]lingoseo.Table
	inflight map[lingoseo.Language]*pendingLoad
}

type pendingLoad struct {
	done  chan struct{}
	table lingoseo.Table
	err   error
}

// Option configures a DirProvider.
type Option func(*DirProvider)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *DirProvider) {
		p.logger = logging.OrNoOp(logger)
	}
}

// WithoutValidation skips the shape check.
func WithoutValidation() Option {
	return func(p *DirProvider) {
		p.validate = false
	}
}

// WithoutOverlays ignores overlay files.
func WithoutOverlays() Option {
	return func(p *DirProvider) {
		p.overlays = false
	}
}

// NewDirProvider reads tables from fsys.
func NewDirProvider(fsys fs.FS, catalog *lingoseo.Catalog, opts ...Option) *DirProvider {
	p := &DirProvider{
		fsys:     fsys,
		catalog:  catalog,
		logger:   logging.NoOp(),
		validate: true,
		overlays: true,
		tables:   map[lingoseo.Language]lingoseo.Table{},
		inflight: map[lingoseo.Language]*pendingLoad{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDir reads tables from a directory on disk.
func NewDir(dir string, catalog *lingoseo.Catalog, opts ...Option) *DirProvider {
	return NewDirProvider(os.DirFS(dir), catalog, opts...)
}

// Load returns lang's table. Failures are not memoized.
func (p *DirProvider) Load(ctx context.Context, lang lingoseo.Language) (lingoseo.Table, error) {
	if !p.catalog.Supports(string(lang)) {
		return nil, &lingoseo.LoadError{Language: lang, Cause: lingoseo.ErrUnsupportedLanguage}
	}

	p.mu.Lock()
	if t, ok := p.tables[lang]; ok {
		p.mu.Unlock()
		return t, nil
	}
	pending, ok := p.inflight[lang]
	if !ok {
		pending = &pendingLoad{done: make(chan struct{})}
		p.inflight[lang] = pending
		go p.read(lang, pending)
	}
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-pending.done:
		return pending.table, pending.err
	}
}

func (p *DirProvider) read(lang lingoseo.Language, pending *pendingLoad) {
	table, err := p.readTable(lang)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, lang)
	pending.table, pending.err = table, err
	if err == nil {
		p.tables[lang] = table
		p.logger.Debug("translation table loaded", "language", lang, "keys", len(table.Keys()))
	} else {
		p.logger.Warn("translation table failed to load", "language", lang, "error", err)
	}
	close(pending.done)
}

func (p *DirProvider) readTable(lang lingoseo.Language) (lingoseo.Table, error) {
	name, err := p.Locate(lang)
	if err != nil {
		return nil, &lingoseo.LoadError{Language: lang, Cause: err}
	}
	table, err := p.decodeFile(lang, name)
	if err != nil {
		return nil, err
	}

	if p.overlays {
		overlayName := string(lang) + OverlaySuffix
		if _, statErr := fs.Stat(p.fsys, overlayName); statErr == nil {
			overlay, err := p.decodeFile(lang, overlayName)
			if err != nil {
				return nil, err
			}
			n := lingoseo.MergeMissing(table, overlay)
			p.logger.Debug("overlay merged", "language", lang, "keys", n)
		}
	}
	return table, nil
}

func (p *DirProvider) decodeFile(lang lingoseo.Language, name string) (lingoseo.Table, error) {
	format, ok := FormatFromPath(name)
	if !ok {
		return nil, &lingoseo.LoadError{Language: lang, Path: name, Cause: fmt.Errorf("unknown format")}
	}
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return nil, &lingoseo.LoadError{Language: lang, Path: name, Cause: err}
	}
	table, err := Decode(data, format)
	if err != nil {
		return nil, &lingoseo.LoadError{Language: lang, Path: name, Cause: err}
	}
	if p.validate {
		if err := Validate(table); err != nil {
			return nil, &lingoseo.LoadError{Language: lang, Path: name, Cause: err}
		}
	}
	return table, nil
}

// Locate returns the name of lang's source table within the file system.
func (p *DirProvider) Locate(lang lingoseo.Language) (string, error) {
	for _, pattern := range candidateNames {
		name := path.Clean(fmt.Sprintf(pattern, lang))
		if info, err := fs.Stat(p.fsys, name); err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", fmt.Errorf("no table for %q: %w", lang, fs.ErrNotExist)
}

// LoadAll loads every catalog language. Languages that fail are left out of
// the map and reported together in the error.
func (p *DirProvider) LoadAll(ctx context.Context) (map[lingoseo.Language]lingoseo.Table, error) {
	out := make(map[lingoseo.Language]lingoseo.Table, p.catalog.Len())
	var errs []error
	for _, lang := range p.catalog.Languages() {
		t, err := p.Load(ctx, lang)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[lang] = t
	}
	return out, errors.Join(errs...)
}

// Invalidate drops lang's memoized table.
func (p *DirProvider) Invalidate(lang lingoseo.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tables, lang)
}

// WriteOverlay writes table as {dir}/{lang}.overlay.json and returns the path.
func WriteOverlay(dir string, lang lingoseo.Language, table lingoseo.Table) (string, error) {
	data, err := Encode(table)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(dir, string(lang)+OverlaySuffix)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// Static serves fixed in-memory tables.
type Static map[lingoseo.Language]lingoseo.Table

// Load returns the table for lang or a LoadError wrapping fs.ErrNotExist.
func (s Static) Load(_ context.Context, lang lingoseo.Language) (lingoseo.Table, error) {
	t, ok := s[lang]
	if !ok {
		return nil, &lingoseo.LoadError{Language: lang, Cause: fs.ErrNotExist}
	}
	return t, nil
}
