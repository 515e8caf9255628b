package prefstore

import (
	"context"
	"net/http"
	"time"
)

// CookieStore reads the preference from a request cookie and writes it back
// on the response. It is scoped to one request.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	name   string
	maxAge time.Duration
	secure bool
}

// CookieOption configures a CookieStore.
type CookieOption func(*CookieStore)

// WithMaxAge sets the cookie lifetime.
func WithMaxAge(d time.Duration) CookieOption {
	return func(c *CookieStore) { c.maxAge = d }
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) CookieOption {
	return func(c *CookieStore) { c.secure = secure }
}

// NewCookieStore creates a store over one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, name string, opts ...CookieOption) *CookieStore {
	if name == "" {
		name = DefaultKey
	}
	c := &CookieStore{w: w, r: r, name: name, maxAge: 365 * 24 * time.Hour}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the cookie value or "".
func (c *CookieStore) Load(context.Context) (string, error) {
	cookie, err := c.r.Cookie(c.name)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}

// Save sets the cookie on the response.
func (c *CookieStore) Save(_ context.Context, lang string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.name,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: false,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
