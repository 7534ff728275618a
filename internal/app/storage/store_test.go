package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

func stores(t *testing.T) map[string]ObjectStore {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return map[string]ObjectStore{
		"local":  local,
		"memory": NewMemoryStore(),
	}
}

func TestObjectStores(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := "aws/cortex/1549000000_ep-80/0.json"

			exists, err := store.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = store.Get(ctx, key)
			assert.True(t, errors.Is(err, apperrors.ErrObjectNotFound))

			require.NoError(t, store.Put(ctx, key, []byte(`[]`), jsonContentType))
			require.NoError(t, store.Put(ctx, "aws/cortex/1549000000_ep-80/600.json", []byte(`[]`), jsonContentType))
			require.NoError(t, store.Put(ctx, "watson/cortex/1549000000_ep-80/0.json", []byte(`[]`), jsonContentType))

			data, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))

			exists, err = store.Exists(ctx, key)
			require.NoError(t, err)
			assert.True(t, exists)

			keys, err := store.List(ctx, "aws/cortex/")
			require.NoError(t, err)
			assert.Equal(t, []string{"aws/cortex/1549000000_ep-80/0.json", "aws/cortex/1549000000_ep-80/600.json"}, keys)

			require.NoError(t, store.Delete(ctx, key))
			exists, err = store.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestObjectStoresRejectBadKeys(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/abs.json", "../escape.json", "a/../b.json", "a//b.json"} {
				assert.Error(t, store.Put(ctx, key, []byte("x"), ""), key)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	type doc struct {
		Word string `json:"word"`
	}
	require.NoError(t, PutJSON(ctx, store, "combined/doc.json", []doc{{Word: "hello"}}))

	var got []doc
	require.NoError(t, GetJSON(ctx, store, "combined/doc.json", &got))
	assert.Equal(t, []doc{{Word: "hello"}}, got)

	require.NoError(t, store.Put(ctx, "combined/bad.json", []byte("{"), jsonContentType))
	err := GetJSON(ctx, store, "combined/bad.json", &got)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))

	err = GetJSON(ctx, store, "combined/missing.json", &got)
	assert.True(t, errors.Is(err, apperrors.ErrObjectNotFound))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "aws/cortex/1_ep.json", Join("aws", "cortex/1_ep.json"))
	assert.Equal(t, "cortex/1_ep.json", TrimNamespace("aws", "aws/cortex/1_ep.json"))
	assert.Equal(t, "cortex/1_ep.json", TrimNamespace("aws/", "aws/cortex/1_ep.json"))
}

func TestNewMinioClientRejectsBadEndpoint(t *testing.T) {
	_, err := newMinioClient(MinioConfig{Endpoint: "localhost:9000/bucket/path", Bucket: "b"})
	assert.Error(t, err)
}
