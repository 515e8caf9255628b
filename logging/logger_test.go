package logging

import "testing"

type recordingProvider struct {
	recorder *Recorder
	names    []string
}

func (p *recordingProvider) GetLogger(name string) Logger {
	p.names = append(p.names, name)
	return p.recorder
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	provider := &recordingProvider{recorder: NewRecorder()}

	logger := ModuleLogger(provider, DetectorModule)
	logger.Info("resolved", "language", "fr")

	if len(provider.names) != 1 || provider.names[0] != DetectorModule {
		t.Fatalf("expected provider lookup for %q, got %v", DetectorModule, provider.names)
	}
	entries := provider.recorder.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Fields["module"] != DetectorModule {
		t.Errorf("module field = %v", entries[0].Fields["module"])
	}
}

func TestModuleLoggerWithoutProvider(t *testing.T) {
	logger := ModuleLogger(nil, "")
	if logger == nil {
		t.Fatal("expected a no-op logger")
	}
	logger.Warn("dropped")
}

func TestWithFieldsNilLogger(t *testing.T) {
	if WithFields(nil, map[string]any{"a": 1}) != nil {
		t.Error("expected nil passthrough")
	}
}

func TestRecorderCount(t *testing.T) {
	r := NewRecorder()
	r.Warn("missing translation key")
	r.WithFields(map[string]any{"x": 1}).Warn("missing translation key")
	r.Info("missing translation key")

	if got := r.Count("warn", "missing"); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
