// Package storage abstracts the object store that holds clip audio, sentence
// sidecars, and vote markers. Two implementations exist: Local (filesystem)
// and S3 (any S3-compatible object store).
//
// Keys are forward-slash separated and relative to the store root or bucket
// prefix. Writes under the same key fully replace prior content; a reader
// never observes a half-written object.
package storage

import (
	"context"
	"io"
)

// ByteRange selects an inclusive byte span of an object. End < 0 means
// "through the last byte".
type ByteRange struct {
	Start int64
	End   int64
}

// Backend is the object-storage port used by the clip pipeline.
//
// Implementations must be safe for concurrent use across keys. Concurrent
// writers to the same key are last-write-wins. Missing keys are reported
// with an error wrapping os.ErrNotExist.
type Backend interface {
	// Put stores the full content of r under key, replacing any prior object.
	Put(ctx context.Context, key string, r io.Reader) error

	// Open opens the object for reading, optionally restricted to rng.
	// The second return value is the total object size regardless of range.
	Open(ctx context.Context, key string, rng *ByteRange) (io.ReadCloser, int64, error)

	// Exists reports whether the object exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Size returns the object's total size in bytes.
	Size(ctx context.Context, key string) (int64, error)

	// PublicURL returns a URL from which playback clients can fetch the
	// object: a time-bounded signed URL for object stores, or a path on the
	// internal streaming endpoint for local storage.
	PublicURL(ctx context.Context, key string) (string, error)
}
