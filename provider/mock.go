package provider

import (
	"context"
	"sync"
)

// MockProvider answers from a fixed glossary. Texts it does not know come
// back bracketed so tests can spot them in written overlays.
type MockProvider struct {
	Glossary map[string]string
	Err      error // returned by every call when set

	mu       sync.Mutex
	requests []TranslateRequest
}

// NewMockProvider returns a mock seeded with a few portfolio strings.
func NewMockProvider() *MockProvider {
	return &MockProvider{Glossary: map[string]string{
		"Hello":             "Bonjour",
		"Software engineer": "Ingénieur logiciel",
		"Projects":          "Projets",
		"Contact":           "Contact",
	}}
}

func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(req.Texts))
	for _, text := range req.Texts {
		if t, ok := m.Glossary[text]; ok {
			out = append(out, t)
			continue
		}
		out = append(out, "["+text+"]")
	}
	return out, nil
}

// Calls returns how many batches were received.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the received batches.
func (m *MockProvider) Requests() []TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranslateRequest(nil), m.requests...)
}

// Reset forgets received batches.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	m.requests = nil
	m.mu.Unlock()
}

var _ AIProvider = (*MockProvider)(nil)
