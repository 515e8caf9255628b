package lingoseo

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/lingoseo/logging"
)

// NavigationState is the lifecycle of one navigation.
type NavigationState int

const (
	StateIdle NavigationState = iota
	StateResolving
	StateReady
	StateSuperseded
)

func (s NavigationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	case StateSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// View is the content a ready navigation exposes to rendering.
type View struct {
	Resolved   ResolvedLanguage
	Localizer  Localizer
	Generation uint64
}

// Session serializes navigations for one client. Only the most recent
// navigation may publish a View; earlier ones finish as superseded.
type Session struct {
	detector *Detector
	loader   TableLoader
	logger   logging.Logger

	// notifyMu serializes listener calls across loading goroutines.
	notifyMu sync.Mutex

	mu         sync.Mutex
	generation uint64
	state      NavigationState
	active     *Navigation
	view       *View
	listeners  []func(View)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger.
func WithSessionLogger(logger logging.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logging.OrNoOp(logger)
	}
}

// NewSession creates an idle session.
func NewSession(detector *Detector, loader TableLoader, opts ...SessionOption) *Session {
	s := &Session{
		detector: detector,
		loader:   loader,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Navigation is a handle on one call to Session.Navigate.
type Navigation struct {
	Generation uint64
	Target     ResolvedLanguage

	session *Session
	done    chan struct{}
	state   NavigationState
	view    View
	err     error
}

// Done is closed once the navigation is ready, superseded or failed.
func (n *Navigation) Done() <-chan struct{} { return n.done }

// State returns the navigation's current state.
func (n *Navigation) State() NavigationState {
	n.session.mu.Lock()
	defer n.session.mu.Unlock()
	return n.state
}

// Wait blocks until the navigation settles. A superseded navigation
// returns ErrSuperseded.
func (n *Navigation) Wait(ctx context.Context) (View, error) {
	select {
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-n.done:
	}
	n.session.mu.Lock()
	defer n.session.mu.Unlock()
	return n.view, n.err
}

// OnReady registers fn to run after each navigation becomes ready.
// Calls are serialized and never deliver a view older than the latest
// navigation. fn runs without the session lock held but must not call
// Navigate synchronously.
func (s *Session) OnReady(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the session state.
func (s *Session) State() NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the published view. It reports false while a navigation
// is resolving so callers render a neutral state instead of stale content.
func (s *Session) Current() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.view == nil {
		return View{}, false
	}
	return *s.view, true
}

// Navigate detects the language for dc and starts loading its tables.
// A navigation that lands on the already-published language is ready
// immediately.
func (s *Session) Navigate(ctx context.Context, dc DetectContext) *Navigation {
	resolved := s.detector.Resolve(ctx, dc)

	s.mu.Lock()
	s.generation++
	nav := &Navigation{
		Generation: s.generation,
		Target:     resolved,
		session:    s,
		done:       make(chan struct{}),
		state:      StateResolving,
	}

	if prev := s.active; prev != nil && prev.state == StateResolving {
		prev.state = StateSuperseded
		prev.err = ErrSuperseded
		close(prev.done)
		s.logger.Debug("navigation superseded", "generation", prev.Generation, "language", prev.Target.Language)
	}
	s.active = nav

	if s.state == StateReady && s.view != nil && s.view.Resolved.Language == resolved.Language {
		view := View{Resolved: resolved, Localizer: s.view.Localizer, Generation: nav.Generation}
		s.publishLocked(nav, view)
		s.mu.Unlock()
		s.notify(view)
		return nav
	}

	s.state = StateResolving
	s.mu.Unlock()

	go s.load(ctx, nav)
	return nav
}

func (s *Session) load(ctx context.Context, nav *Navigation) {
	catalog := s.detector.Catalog()
	tables := map[Language]Table{}
	for _, lang := range uniqueLanguages(nav.Target.Language, catalog.Default()) {
		t, err := s.loader.Load(ctx, lang)
		if err != nil {
			s.logger.Warn("translation table unavailable", "language", lang, "error", err)
			continue
		}
		tables[lang] = t
	}

	s.mu.Lock()
	if nav.Generation != s.generation {
		// A newer navigation already closed this one.
		s.mu.Unlock()
		return
	}
	if err := ctx.Err(); err != nil {
		nav.state = StateIdle
		nav.err = err
		s.state = StateIdle
		close(nav.done)
		s.mu.Unlock()
		return
	}

	resolver := NewResolver(catalog, tables, WithResolverLogger(s.logger))
	view := View{Resolved: nav.Target, Localizer: resolver.For(nav.Target.Language), Generation: nav.Generation}
	s.publishLocked(nav, view)
	s.mu.Unlock()

	s.logger.Info("navigation ready", "generation", nav.Generation, "language", nav.Target.Language)
	s.notify(view)
}

func (s *Session) publishLocked(nav *Navigation, view View) {
	nav.state = StateReady
	nav.view = view
	s.state = StateReady
	s.view = &view
	close(nav.done)
}

// notify hands view to every listener in turn. It stops as soon as a newer
// navigation has started, so a slow listener cannot apply a superseded
// language after the current one.
func (s *Session) notify(view View) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	listeners := append([]func(View){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		if s.stale(view) {
			s.logger.Debug("dropping superseded view", "generation", view.Generation, "language", view.Resolved.Language)
			return
		}
		fn(view)
	}
}

func (s *Session) stale(view View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Generation < s.generation
}

func uniqueLanguages(langs ...Language) []Language {
	out := make([]Language, 0, len(langs))
	seen := map[Language]bool{}
	for _, l := range langs {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
