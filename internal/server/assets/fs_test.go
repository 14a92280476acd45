package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(filepath.Join(t.TempDir(), "images"), "http://localhost:3000/")
	require.NoError(t, err)
	return s
}

func TestFSStore_StoreURLRelease(t *testing.T) {
	s := newFSStore(t)
	ctx := context.Background()
	data := pngBytes(t, 1, 1)

	ref, err := s.Store(ctx, data, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.NotContains(t, ref, "/")

	onDisk, err := os.ReadFile(filepath.Join(s.Dir(), ref))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	u, err := s.URL(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/images/"+ref, u)

	require.NoError(t, s.Release(ctx, ref))
	_, err = os.Stat(filepath.Join(s.Dir(), ref))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Release(ctx, ref), "releasing twice is fine")
}

func TestFSStore_DistinctRefs(t *testing.T) {
	s := newFSStore(t)
	a, err := s.Store(context.Background(), []byte("a"), "image/jpeg")
	require.NoError(t, err)
	b, err := s.Store(context.Background(), []byte("a"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFSStore_RejectsUnsupportedType(t *testing.T) {
	s := newFSStore(t)
	_, err := s.Store(context.Background(), []byte("x"), "application/pdf")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	s := newFSStore(t)
	outside := filepath.Join(filepath.Dir(s.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	for _, ref := range []string{"", "..", "../keep.txt", "a/b.png"} {
		assert.Error(t, s.Release(context.Background(), ref), ref)
		_, err := s.URL(context.Background(), ref)
		assert.Error(t, err, ref)
	}

	_, err := os.Stat(outside)
	require.NoError(t, err)
}

func TestFSStore_CanceledContext(t *testing.T) {
	s := newFSStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Store(ctx, []byte("x"), "image/png")
	require.ErrorIs(t, err, context.Canceled)
}
