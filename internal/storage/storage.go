// Package storage provides the persistence bridge: a per-identity key-value
// store that cart, order, and account state is mirrored into. Values are
// opaque byte documents; encoding is owned by the domain packages.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Load when no document exists for the key.
var ErrNotFound = errors.New("document not found")

// Bridge persists per-identity documents. The key space is partitioned by
// identity id; clearing one identity's key never touches another identity's
// data.
type Bridge interface {
	Save(ctx context.Context, identityID, key string, data []byte) error
	Load(ctx context.Context, identityID, key string) ([]byte, error)
	Clear(ctx context.Context, identityID, key string) error
}
