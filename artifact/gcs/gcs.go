// Package gcs implements core.ArtifactStore on a Google Cloud Storage bucket.
//
// Blobs are laid out as runID/key object names. Audio clips uploaded here can
// be served directly from the bucket; PublicURL returns the canonical
// storage.googleapis.com address (or a CDN address when configured).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/sceneweave/sceneweave/artifact"
)

// Options configure the GCS artifact store.
type Options struct {
	// CDNDomain, when set, is used by PublicURL instead of the default
	// storage.googleapis.com host.
	CDNDomain string

	// OperationTimeout bounds each bucket operation. Defaults to 2 minutes.
	OperationTimeout time.Duration
}

// Store is a core.ArtifactStore backed by a GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
	opts   Options
}

// NewStore constructs a Store writing to bucket via client.
func NewStore(client *storage.Client, bucket string, optFns ...func(o *Options)) *Store {
	opts := Options{OperationTimeout: 2 * time.Minute}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, bucket: bucket, opts: opts}
}

func objectName(runID, key string) string {
	return runID + "/" + key
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(key)
	switch {
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(s, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}

// Save uploads the blob bytes under runID/key.
func (s *Store) Save(runID, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.OperationTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName(runID, key)).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write blob to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Get downloads the blob stored under runID/key.
func (s *Store) Get(runID, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.OperationTimeout)
	defer cancel()

	r, err := s.client.Bucket(s.bucket).Object(objectName(runID, key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, artifact.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}
	return data, nil
}

// List returns the keys stored for the run.
func (s *Store) List(runID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.OperationTimeout)
	defer cancel()

	prefix := runID + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	keys := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, prefix))
	}
	return keys, nil
}

// Delete removes the blob stored under runID/key.
func (s *Store) Delete(runID, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.OperationTimeout)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(objectName(runID, key)).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return artifact.ErrNotFound
		}
		return fmt.Errorf("failed to delete GCS object: %w", err)
	}
	return nil
}

// PublicURL returns the web address of a stored blob.
func (s *Store) PublicURL(runID, key string) string {
	if s.opts.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.opts.CDNDomain, objectName(runID, key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName(runID, key))
}
