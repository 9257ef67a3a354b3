package blob_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ianfmc/livewell-nadex/internal/adapters/blob"
	"github.com/ianfmc/livewell-nadex/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore verifica el contrato común de ports.BlobStore.
func exerciseStore(t *testing.T, s ports.BlobStore) {
	t.Helper()
	ctx := context.Background()

	keys, err := s.List(ctx, "backtest/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = s.Get(ctx, "backtest/results/latest/trades.csv")
	assert.True(t, errors.Is(err, ports.ErrObjectNotFound))

	require.NoError(t, s.Put(ctx, "backtest/results/2025-03-01/trades.csv", []byte("a,b\n"), "text/csv"))
	require.NoError(t, s.Put(ctx, "backtest/results/latest/trades.csv", []byte("old"), "text/csv"))
	require.NoError(t, s.Put(ctx, "backtest/results/latest/trades.csv", []byte("new"), "text/csv"))
	require.NoError(t, s.Put(ctx, "historical/US500_2025.csv", []byte("x"), "text/csv"))

	got, err := s.Get(ctx, "backtest/results/latest/trades.csv")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	keys, err = s.List(ctx, "backtest/results/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backtest/results/2025-03-01/trades.csv",
		"backtest/results/latest/trades.csv",
	}, keys)

	keys, err = s.List(ctx, "historical/")
	require.NoError(t, err)
	assert.Equal(t, []string{"historical/US500_2025.csv"}, keys)
}

func TestFSStore_Contract(t *testing.T) {
	exerciseStore(t, blob.NewFSStore(filepath.Join(t.TempDir(), "data")))
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	s := blob.NewFSStore(t.TempDir())
	err := s.Put(context.Background(), "../outside.csv", []byte("x"), "text/csv")
	assert.Error(t, err)
	_, err = s.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestSQLiteStore_Contract(t *testing.T) {
	s, err := blob.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)

	ct, err := s.ContentType(context.Background(), "historical/US500_2025.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", ct)
}

func TestSQLiteStore_PrefixWildcardsAreLiteral(t *testing.T) {
	s, err := blob.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a_b/x", []byte("1"), ""))
	require.NoError(t, s.Put(ctx, "acb/x", []byte("2"), ""))
	require.NoError(t, s.Put(ctx, "a%/y", []byte("3"), ""))

	keys, err := s.List(ctx, "a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b/x"}, keys)

	keys, err = s.List(ctx, "a%")
	require.NoError(t, err)
	assert.Equal(t, []string{"a%/y"}, keys)
}

func TestNewS3Store(t *testing.T) {
	_, err := blob.NewS3Store(blob.S3Config{})
	assert.Error(t, err)

	s, err := blob.NewS3Store(blob.S3Config{
		Bucket:    "nadex-data",
		Region:    "us-east-1",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		UseSSL:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "nadex-data", s.Bucket())
}
