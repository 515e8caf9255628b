package prerender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/htmldoc"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/google/uuid"
)

// ErrIncomplete is returned by Run when at least one language failed.
var ErrIncomplete = errors.New("prerender incomplete")

// Instance is the running site being captured.
type Instance interface {
	Start() error
	URL() string
	Shutdown(ctx context.Context) error
}

// RendererFactory starts a renderer once the instance is reachable.
type RendererFactory func(ctx context.Context) (Renderer, error)

// HeadFunc returns the head metadata and JSON-LD blocks for lang. Captured
// markup is rewritten with them before it is written.
type HeadFunc func(lang lingoseo.Language) (lingoseo.PageMetadata, []string, error)

// Config controls a run.
type Config struct {
	// OutputDir receives {lang}/index.html and the report.
	OutputDir string
	// Timeout bounds each language's readiness wait.
	Timeout time.Duration
	// Settle is the renderer's post-mount delay. It is added to Timeout
	// for the job budget so a late mount still gets to settle.
	Settle time.Duration
	// ProbeTimeout bounds waiting for the instance to answer.
	ProbeTimeout time.Duration
	// ReadySelector is used for diagnostics of failed pages.
	ReadySelector string
	// SnippetLen bounds the partial markup kept in the report.
	SnippetLen int
}

// Orchestrator drives one prerender run.
type Orchestrator struct {
	catalog     *lingoseo.Catalog
	instance    Instance
	newRenderer RendererFactory
	head        HeadFunc
	cfg         Config
	logger      logging.Logger
	probe       *http.Client
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHead rewrites captured pages with head metadata from fn.
func WithHead(fn HeadFunc) Option {
	return func(o *Orchestrator) { o.head = fn }
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.OrNoOp(logger) }
}

// WithClock sets the time source used for report stamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(catalog *lingoseo.Catalog, instance Instance, newRenderer RendererFactory, cfg Config, opts ...Option) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 10 * time.Second
	}
	if cfg.ReadySelector == "" {
		cfg.ReadySelector = htmldoc.DefaultReadySelector
	}
	if cfg.SnippetLen <= 0 {
		cfg.SnippetLen = 500
	}
	o := &Orchestrator{
		catalog:     catalog,
		instance:    instance,
		newRenderer: newRenderer,
		cfg:         cfg,
		logger:      logging.NoOp(),
		probe:       &http.Client{Timeout: 2 * time.Second},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run starts the instance and the renderer, prerenders /{lang}/ for every
// catalog language in order, and tears both down on every path. The bare
// root is not captured since it only redirects. A failed language does not
// stop the others; Run then returns the report and ErrIncomplete. Failures
// to start the instance or renderer abort the run.
func (o *Orchestrator) Run(ctx context.Context) (report *Report, err error) {
	report = &Report{
		RunID:     uuid.NewString(),
		Version:   lingoseo.FullVersion(),
		StartedAt: o.now().UTC(),
	}
	logger := logging.WithFields(o.logger, map[string]any{"run_id": report.RunID})

	if err := o.instance.Start(); err != nil {
		return report, fmt.Errorf("start instance: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if serr := o.instance.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("instance shutdown failed", "error", serr)
		}
	}()

	base := strings.TrimRight(o.instance.URL(), "/")
	report.Target = base
	if err := o.waitForInstance(ctx, base); err != nil {
		return report, fmt.Errorf("instance at %s never answered: %w", base, err)
	}

	renderer, err := o.newRenderer(ctx)
	if err != nil {
		return report, fmt.Errorf("start renderer: %w", err)
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			logger.Warn("renderer close failed", "error", cerr)
		}
	}()

	for _, lang := range o.catalog.Languages() {
		report.Jobs = append(report.Jobs, &Job{
			Language: lang,
			URL:      base + "/" + string(lang) + "/",
			Status:   StatusPending,
		})
	}

	logger.Info("skipping root path", "reason", "redirects to a language path")
	for _, job := range report.Jobs {
		if ctx.Err() != nil {
			job.Status = StatusFailed
			job.Error = ctx.Err().Error()
			continue
		}
		o.runJob(ctx, logger, renderer, job)
	}

	report.FinishedAt = o.now().UTC()
	if path, werr := report.Write(o.cfg.OutputDir); werr != nil {
		logger.Error("report not written", "error", werr)
	} else {
		logger.Info("report written", "file", path, "summary", report.Summary())
	}

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if failed := report.Failed(); len(failed) > 0 {
		langs := make([]string, len(failed))
		for i, j := range failed {
			langs[i] = string(j.Language)
		}
		return report, fmt.Errorf("%w: %s failed", ErrIncomplete, strings.Join(langs, ", "))
	}
	return report, nil
}

func (o *Orchestrator) runJob(ctx context.Context, logger logging.Logger, renderer Renderer, job *Job) {
	job.StartedAt = o.now().UTC()
	start := time.Now()
	logger.Info("prerender started", "language", job.Language, "url", job.URL)

	markup, err := o.capture(ctx, renderer, job)
	job.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		var renderErr *lingoseo.RenderError
		if errors.As(err, &renderErr) {
			renderErr.Language = job.Language
			diag := htmldoc.Diagnose(renderErr.Partial, o.cfg.ReadySelector, o.cfg.SnippetLen)
			job.Diagnostics = &diag
			job.Error = renderErr.Error()
		}
		args := []any{"language", job.Language, "url", job.URL, "error", job.Error}
		if job.Diagnostics != nil {
			args = append(args, "bytes", job.Diagnostics.Bytes, "snippet", job.Diagnostics.Snippet)
		}
		logger.Error("prerender failed", args...)
		return
	}

	job.Status = StatusSuccess
	job.Bytes = len(markup)
	job.Checksum = lingoseo.Checksum([]byte(markup))
	logger.Info("prerender finished", "language", job.Language, "output", job.Output, "bytes", job.Bytes, "duration_ms", job.DurationMS)
}

// jobBudget is the time one language may take end to end: the readiness
// wait, the settle delay and a margin for capturing the document.
func (o *Orchestrator) jobBudget() time.Duration {
	return o.cfg.Timeout + max(o.cfg.Settle, 0) + captureTimeout
}

// capture renders, syncs the head and writes one page.
func (o *Orchestrator) capture(ctx context.Context, renderer Renderer, job *Job) (string, error) {
	jobCtx, cancel := context.WithTimeout(ctx, o.jobBudget())
	defer cancel()

	markup, err := renderer.Render(jobCtx, job.URL)
	if err != nil {
		return "", err
	}

	if o.head != nil {
		meta, jsonld, err := o.head(job.Language)
		if err != nil {
			return "", fmt.Errorf("build head for %s: %w", job.Language, err)
		}
		markup, err = htmldoc.SyncHead(markup, meta, jsonld)
		if err != nil {
			return "", err
		}
	}

	target := filepath.Join(o.cfg.OutputDir, string(job.Language), "index.html")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(markup), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	job.Output = target
	return markup, nil
}

// waitForInstance polls base until it answers with any HTTP response.
func (o *Orchestrator) waitForInstance(ctx context.Context, base string) error {
	_, err := lingoseo.WithRetry(ctx, lingoseo.PollConfig(100*time.Millisecond, o.cfg.ProbeTimeout), func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/", nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("User-Agent", lingoseo.UserAgent())
		resp, err := o.probe.Do(req)
		if err != nil {
			return 0, fmt.Errorf("%v: %w", err, lingoseo.ErrNotReady)
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	})
	return err
}
