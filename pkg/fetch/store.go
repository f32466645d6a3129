package fetch

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when the path has no document behind it.
var ErrNotFound = errors.New("rule document not found")

// Store retrieves raw rule documents by their catalog path.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Lister is implemented by stores that can enumerate their documents. It is
// optional; the fetcher uses it to suggest a close path when a lookup misses.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
