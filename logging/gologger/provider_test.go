package gologger

import (
	"context"
	"testing"

	"github.com/ZaguanLabs/lingoseo/logging"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := logging.ModuleLogger(p, logging.PrerenderModule)
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	logger.WithContext(context.Background()).Debug("adapter.initialised", "language", "en")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if p.GetLogger("x") == nil {
		t.Fatal("expected no-op logger")
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := map[string]bool{"warning": true, "INFO": true, "": false, "verbose": false}
	for in, ok := range tests {
		if got := normalizeLevel(in) != ""; got != ok {
			t.Errorf("normalizeLevel(%q) recognised = %v, want %v", in, got, ok)
		}
	}
}
