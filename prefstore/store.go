// Package prefstore persists each client's language preference so later
// sessions resolve from the stored value.
package prefstore

import (
	"context"

	"github.com/ZaguanLabs/lingoseo"
)

// DefaultKey is the storage key the preference is kept under.
const DefaultKey = "i18nextLng"

// Store is a keyed preference store shared by many clients.
type Store interface {
	// Get returns the stored language and whether one exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores lang for key.
	Set(ctx context.Context, key, lang string) error
}

// Scope binds a shared store to one client's key.
func Scope(store Store, key string) lingoseo.Preferences {
	return scoped{store: store, key: key}
}

type scoped struct {
	store Store
	key   string
}

func (s scoped) Load(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, s.key)
	return v, err
}

func (s scoped) Save(ctx context.Context, lang string) error {
	return s.store.Set(ctx, s.key, lang)
}
