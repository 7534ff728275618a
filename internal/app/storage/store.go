// Package storage keeps transcript documents in an object store.
package storage

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

const jsonContentType = "application/json"

// ObjectStore is a flat key/value store of documents. Keys use forward slashes.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Join builds a key from a namespace and a key within it.
func Join(namespace, key string) string {
	return path.Join(namespace, key)
}

// TrimNamespace strips namespace/ from key.
func TrimNamespace(namespace, key string) string {
	return strings.TrimPrefix(key, strings.TrimSuffix(namespace, "/")+"/")
}

// GetJSON reads key and decodes it into v.
func GetJSON(ctx context.Context, store ObjectStore, key string, v interface{}) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Malformed("%s: %v", key, err)
	}
	return nil
}

// PutJSON encodes v and writes it to key.
func PutJSON(ctx context.Context, store ObjectStore, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "encode %s: %v", key, err)
	}
	return store.Put(ctx, key, data, jsonContentType)
}

func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return apperrors.InvalidField("object key", key)
	}
	return nil
}
