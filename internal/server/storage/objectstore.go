// Package storage owns the two object-store buckets behind the document
// download API: the encrypted primary documents bucket and the plaintext
// scan-target bucket that exists only so external scanners can inspect and
// tag uploads.
package storage

import (
	"context"
	"io"
	"time"
)

// Object is a fetched blob plus the metadata the HTTP layer needs to serve
// it.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStore wraps a tag-capable blob store. Both stores in this package
// use it identically; the S3 implementation is the only production one.
//
// sseKey, when non-nil, is a 256-bit SSE-C customer key applied to the
// object. All methods report backing failures as errors wrapping ErrStore.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, tags map[string]string, sseKey []byte) error
	Get(ctx context.Context, key string, sseKey []byte) (*Object, error)
	GetTags(ctx context.Context, key string) (map[string]string, error)
	// PutTags replaces the object's entire tag set with tags. Callers that
	// need to change a single tag must read the current set and write back
	// the merged result.
	PutTags(ctx context.Context, key string, tags map[string]string) error
	// Age returns how long ago the object was last modified, clamped at
	// zero for clock skew.
	Age(ctx context.Context, key string, now time.Time) (time.Duration, error)
}
