package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Entry is a single captured log line.
type Entry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// Recorder is an in-memory Logger that keeps every entry. Loggers derived
// through WithFields share the same entry list.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  map[string]any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) log(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Message: msg, Args: args, Fields: r.fields})
}

func (r *Recorder) Trace(msg string, args ...any) { r.log("trace", msg, args) }
func (r *Recorder) Debug(msg string, args ...any) { r.log("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.log("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.log("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.log("error", msg, args) }
func (r *Recorder) Fatal(msg string, args ...any) { r.log("fatal", msg, args) }

func (r *Recorder) WithContext(context.Context) Logger { return r }

func (r *Recorder) WithFields(fields map[string]any) Logger {
	merged := make(map[string]any, len(r.fields)+len(fields))
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Recorder{mu: r.mu, entries: r.entries, fields: merged}
}

// Entries returns a copy of the captured entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Count returns how many entries were logged at level whose message
// contains substr.
func (r *Recorder) Count(level, substr string) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s %v", e.Level, e.Message, e.Args)
}
