package prerender

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/htmldoc"
)

// ReportFile is written into the output directory after every run.
const ReportFile = "prerender-report.json"

// Status is the state of one language's job.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Job records the prerender of one language.
type Job struct {
	Language    lingoseo.Language    `json:"language"`
	URL         string               `json:"url"`
	Output      string               `json:"output,omitempty"`
	Status      Status               `json:"status"`
	StartedAt   time.Time            `json:"startedAt,omitzero"`
	DurationMS  int64                `json:"durationMs"`
	Bytes       int                  `json:"bytes,omitempty"`
	Checksum    string               `json:"checksum,omitempty"`
	Error       string               `json:"error,omitempty"`
	Diagnostics *htmldoc.Diagnostics `json:"diagnostics,omitempty"`
}

// Report collects the jobs of one run.
type Report struct {
	RunID      string    `json:"runId"`
	Version    string    `json:"version"`
	Target     string    `json:"target"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
	Jobs       []*Job    `json:"jobs"`
}

// Failed returns the jobs that did not succeed.
func (r *Report) Failed() []*Job {
	var out []*Job
	for _, j := range r.Jobs {
		if j.Status != StatusSuccess {
			out = append(out, j)
		}
	}
	return out
}

// OK reports whether every job succeeded.
func (r *Report) OK() bool {
	return len(r.Jobs) > 0 && len(r.Failed()) == 0
}

// Summary returns a one-line outcome.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d languages prerendered", len(r.Jobs)-len(r.Failed()), len(r.Jobs))
}

// Write stores the report as indented JSON in dir.
func (r *Report) Write(dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(dir, ReportFile)
	if err := os.WriteFile(target, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return target, nil
}

// ReadReport loads a report written by Write.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
