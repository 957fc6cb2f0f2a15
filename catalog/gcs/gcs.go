// Package gcs loads the asset catalog manifest from a Google Cloud Storage
// bucket. The manifest is fetched once and cached for the lifetime of the
// lookup; call Refresh to pick up catalog updates.
package gcs

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/storage"

	"github.com/sceneweave/sceneweave/catalog"
	"github.com/sceneweave/sceneweave/core"
)

// ManifestObject is the bucket key holding the catalog manifest.
const ManifestObject = "manifest.json"

// Options configure the GCS catalog lookup.
type Options struct {
	// Object overrides the manifest object key. Defaults to ManifestObject.
	Object string
}

// Lookup is a catalog.Lookup backed by a manifest object in a GCS bucket.
type Lookup struct {
	client *storage.Client
	bucket string
	object string

	mu     sync.Mutex
	cached *catalog.StaticLookup
}

// NewLookup constructs a Lookup reading from bucket via client.
func NewLookup(client *storage.Client, bucket string, optFns ...func(o *Options)) *Lookup {
	opts := Options{Object: ManifestObject}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Lookup{client: client, bucket: bucket, object: opts.Object}
}

// Match implements catalog.Lookup, loading the manifest on first use.
func (l *Lookup) Match(ctx context.Context, g *core.ConceptGraph, maxAssets int) ([]catalog.Match, error) {
	static, err := l.static(ctx)
	if err != nil {
		return nil, err
	}
	return static.Match(ctx, g, maxAssets)
}

// Refresh discards the cached manifest and fetches it again.
func (l *Lookup) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
	_, err := l.static(ctx)
	return err
}

func (l *Lookup) static(ctx context.Context) (*catalog.StaticLookup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	r, err := l.client.Bucket(l.bucket).Object(l.object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %q in bucket %q: %w", l.object, l.bucket, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", l.object, err)
	}

	manifest, err := catalog.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	l.cached = catalog.NewStaticLookup(manifest)
	return l.cached, nil
}
