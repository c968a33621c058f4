// Package blobstore wraps the object-storage providers that hold file payloads.
package blobstore

import (
	"context"
	"fmt"
	"io"
)

// Locator describes an uploaded blob. NativeID is the provider's own
// identifier, which may differ from the name the blob was uploaded under.
type Locator struct {
	NativeID     string
	Name         string
	URL          string
	ThumbnailURL string
	Path         string
	Size         int64
}

// Object is a search hit.
type Object struct {
	NativeID string
	Name     string
}

type Store interface {
	Upload(ctx context.Context, r io.Reader, name string) (Locator, error)
	Search(ctx context.Context, name string, limit int) ([]Object, error)
	Delete(ctx context.Context, nativeID string) error
}

// StoreError is returned for every provider failure.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("blobstore %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("blobstore %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func storeErr(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}
