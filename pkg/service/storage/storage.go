// Package storage archives exported artifacts to Cloud Storage.
package storage

import (
	"context"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/utils/safe"
)

// Archiver implements interfaces.Archiver on a Cloud Storage bucket
type Archiver struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Archiver = (*Archiver)(nil)

// Option is a functional option for Archiver
type Option func(*Archiver)

// WithPrefix sets the object name prefix, e.g. "exports"
func WithPrefix(prefix string) Option {
	return func(a *Archiver) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

// New creates an Archiver with application default credentials
func New(ctx context.Context, bucket string, opts ...Option) (*Archiver, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	a := &Archiver{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ObjectName returns the full object name for name
func (a *Archiver) ObjectName(name string) string {
	return objectName(a.prefix, name)
}

func objectName(prefix, name string) string {
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Store uploads data and returns its gs:// URL
func (a *Archiver) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := a.ObjectName(name)

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", a.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", a.bucket), goerr.V("object", object))
	}

	return "gs://" + a.bucket + "/" + object, nil
}

// Close releases the storage client
func (a *Archiver) Close() error {
	return a.client.Close()
}
