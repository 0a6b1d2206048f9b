// Package objectstore stores user media (avatars, story uploads) by bucket and key.
package objectstore

import (
	"context"
	"errors"
)

var (
	ErrObjectExists = errors.New("object already exists")
	ErrInvalidKey   = errors.New("invalid object key")
)

type UploadOptions struct {
	ContentType string
	// Overwrite replaces an existing object instead of failing.
	Overwrite bool
}

//go:generate go run go.uber.org/mock/mockgen -source=objectstore.go -destination=mocks/mock.go
type Storage interface {
	Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}
