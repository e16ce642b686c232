package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Should save, open and delete", func(t *testing.T) {
		path, err := store.Save(ctx, "abcdef123.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "ab/cd/abcdef123.pdf", path)

		rc, err := store.Open(ctx, path)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "%PDF-1.4", string(data))

		require.NoError(t, store.Delete(ctx, path))
		_, err = store.Open(ctx, path)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, store.Delete(ctx, path), "delete is idempotent")
	})

	t.Run("Should reject traversal", func(t *testing.T) {
		_, err := store.Save(ctx, "../../etc/passwd", strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey)

		_, err = store.Open(ctx, "../outside")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
