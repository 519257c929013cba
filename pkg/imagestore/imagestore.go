// Package imagestore uploads product images to an external object store and
// hands back durable public URLs.
//
// Two drivers: S3-compatible object storage (AWS S3, MinIO, R2, Spaces) for
// production, and an in-memory store for tests and credential-less local
// runs. Batch ingestion preserves input order — the first image is the
// product's thumbnail, so order is part of the contract.
package imagestore

import (
	"context"
	"io"
)

// File is one uploaded image payload.
type File struct {
	Name   string
	Reader io.Reader
}

// Store is the image ingestion adapter.
type Store interface {
	// Ingest uploads one image and returns its public URL.
	Ingest(ctx context.Context, name string, r io.Reader) (string, error)

	// IngestMany uploads a batch; the returned URLs are index-aligned with
	// files. Fails on the first upload error.
	IngestMany(ctx context.Context, files []File) ([]string, error)

	// Remove deletes the object behind url. Callers on the delete path treat
	// failures as advisory: log and continue.
	Remove(ctx context.Context, url string) error
}
