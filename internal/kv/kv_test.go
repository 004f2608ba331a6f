package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	testStore(t, kv.NewMemory())
}

func TestMemory_ZeroValue(t *testing.T) {
	var m kv.Memory
	testStore(t, &m)
}

func TestSQLite(t *testing.T) {
	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testStore(t, s)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "mirror.db")

	s, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "cart", []byte(`[1]`)))
	require.NoError(t, s.Close())

	s, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := kv.OpenSQLite("  ")
	require.EqualError(t, err, "storage path is required")
}

func testStore(t *testing.T, s port.KeyValueStore) {
	t.Helper()

	ctx := t.Context()
	key := gofakeit.Word()

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, port.ErrNotFound)

	first := []byte(gofakeit.Sentence(5))
	require.NoError(t, s.Set(ctx, key, first))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := []byte(gofakeit.Sentence(3))
	require.NoError(t, s.Set(ctx, key, second))

	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Get(canceled, key)
	require.Error(t, err)
}
