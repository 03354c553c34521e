// Round-trip tests shared by every snapshot backend.
package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

type backendFactory func(t *testing.T) types.SnapshotStore

// newMiniredisStore starts a miniredis server and returns a store on it.
func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	r, err := NewRedisStore(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		types.BackendJSONL: func(t *testing.T) types.SnapshotStore {
			return NewJSONLStore(filepath.Join(t.TempDir(), "data"))
		},
		types.BackendSQLite: func(t *testing.T) types.SnapshotStore {
			s, err := OpenSQLite(context.Background(), t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		types.BackendRedis: func(t *testing.T) types.SnapshotStore {
			r, _ := newMiniredisStore(t)
			return r
		},
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			empty, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, types.NewTaxonomy(), empty)

			want := sampleTaxonomy()
			require.NoError(t, s.Save(ctx, want))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestBackendSaveReplaces(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.Save(ctx, sampleTaxonomy()))

			smaller := sampleTaxonomy()
			delete(smaller.Behaviors, "beh1")
			delete(smaller.Hierarchy.Leaf(types.LeafFungiblesWhole), "d1")
			smaller.Version = "2.0"
			require.NoError(t, s.Save(ctx, smaller))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, smaller, got)
			assert.Empty(t, got.Behaviors)
		})
	}
}

func TestBackendNilHierarchy(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			tax := sampleTaxonomy()
			tax.Hierarchy = nil
			require.NoError(t, s.Save(ctx, tax))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got.Hierarchy)
			assert.Equal(t, tax.Bases, got.Bases)
		})
	}
}

func TestJSONLLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewJSONLStore(dir)
	require.NoError(t, s.Save(context.Background(), sampleTaxonomy()))

	for _, name := range []string{
		"bases.jsonl", "behaviors.jsonl", "behavior_groups.jsonl", "property_sets.jsonl",
		"template_formulas.jsonl", "template_definitions.jsonl", "hierarchy.jsonl", "taxonomy.jsonl",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	tmps, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmps)
}

func TestJSONLSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"key":"b1","body":{"artifact":{"name":"One","symbol":{"id":"b1","kind":"BASE"}}}}
not json at all

{"key":"b2","body":{"artifact":{"name":"Two","symbol":{"id":"b2","kind":"BASE"}}}}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bases.jsonl"), []byte(content), 0o644))

	tax, err := NewJSONLStore(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tax.Bases, 2)
	assert.Equal(t, "Two", tax.Bases["b2"].Artifact.Name)
	assert.NotNil(t, tax.Hierarchy)
}

func TestJSONLLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewJSONLStore(t.TempDir()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisKeysAreNamespaced(t *testing.T) {
	r, mr := newMiniredisStore(t)
	require.NoError(t, r.Save(context.Background(), sampleTaxonomy()))

	assert.True(t, mr.Exists("tokendesigner:test-instance:artifacts:bases"))
	assert.True(t, mr.Exists("tokendesigner:test-instance:hierarchy"))
	assert.Equal(t, "1.0", mr.HGet("tokendesigner:test-instance:meta", "version"))
	assert.NotEmpty(t, mr.HGet("tokendesigner:test-instance:hierarchy", "fungibles.whole:d1"))

	other, err := NewRedisStore(&redis.Options{Addr: mr.Addr()}, "other")
	require.NoError(t, err)
	defer other.Close()
	tax, err := other.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tax.Bases)
}

func TestNewRedisStoreRequiresInstance(t *testing.T) {
	_, err := NewRedisStore(&redis.Options{Addr: "localhost:0"}, "")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid config", func(t *testing.T) {
		_, err := Open(ctx, types.Config{})
		assert.ErrorIs(t, err, types.ErrBackendEmpty)
		_, err = Open(ctx, types.Config{Backend: "postgres"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
		_, err = Open(ctx, types.Config{Backend: types.BackendRedis})
		assert.ErrorIs(t, err, types.ErrRedisAddrEmpty)
	})

	t.Run("jsonl", func(t *testing.T) {
		s, err := Open(ctx, types.Config{Backend: types.BackendJSONL, DataDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &JSONLStore{}, s)
		assert.NoError(t, s.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(ctx, types.Config{Backend: types.BackendSQLite, DataDir: dir})
		require.NoError(t, err)
		assert.IsType(t, &SQLiteStore{}, s)
		assert.NoError(t, s.Close())
		assert.FileExists(t, filepath.Join(dir, "taxonomy.db"))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.NewMiniRedis()
		require.NoError(t, mr.Start())
		defer mr.Close()

		s, err := Open(ctx, types.Config{Backend: types.BackendRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer s.Close()
		require.NoError(t, s.Save(ctx, sampleTaxonomy()))
		assert.True(t, mr.Exists("tokendesigner:default:meta"))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.NewMiniRedis()
		require.NoError(t, mr.Start())
		addr := mr.Addr()
		mr.Close()

		_, err := Open(ctx, types.Config{Backend: types.BackendRedis, RedisAddr: addr})
		assert.Error(t, err)
	})
}
