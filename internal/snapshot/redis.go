package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// keyPrefix namespaces every key this package writes.
const keyPrefix = "tokendesigner"

// ArtifactsKey returns the hash holding one sub-store.
// Format: tokendesigner:{instance}:artifacts:{section}
func ArtifactsKey(instance, section string) string {
	return fmt.Sprintf("%s:%s:artifacts:%s", keyPrefix, instance, section)
}

// HierarchyKey returns the hash holding the classification hierarchy, with
// fields of the form {leaf}:{definition id}.
// Format: tokendesigner:{instance}:hierarchy
func HierarchyKey(instance string) string {
	return fmt.Sprintf("%s:%s:hierarchy", keyPrefix, instance)
}

// MetaKey returns the hash holding taxonomy metadata.
// Format: tokendesigner:{instance}:meta
func MetaKey(instance string) string {
	return fmt.Sprintf("%s:%s:meta", keyPrefix, instance)
}

// RedisStore keeps a snapshot in Redis hashes namespaced by instance name.
type RedisStore struct {
	rdb      *redis.Client
	instance string
}

var _ types.SnapshotStore = (*RedisStore)(nil)

// NewRedisStore creates a store for the named instance. It does not dial;
// use Ping to check connectivity.
func NewRedisStore(opts *redis.Options, instance string) (*RedisStore, error) {
	if instance == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}
	return &RedisStore{rdb: redis.NewClient(opts), instance: instance}, nil
}

// Ping verifies Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) keys() []string {
	keys := make([]string, 0, len(sections)+2)
	for _, s := range sections {
		keys = append(keys, ArtifactsKey(r.instance, s.name))
	}
	return append(keys, HierarchyKey(r.instance), MetaKey(r.instance))
}

// Load reads every hash. An instance with no keys yields an empty taxonomy.
func (r *RedisStore) Load(ctx context.Context) (*types.Taxonomy, error) {
	flat := &flatTaxonomy{artifacts: make(map[types.ArtifactKind][]entry, len(sections))}

	for _, s := range sections {
		fields, err := r.rdb.HGetAll(ctx, ArtifactsKey(r.instance, s.name)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from Redis: %w", s.name, err)
		}
		for k, body := range fields {
			flat.artifacts[s.kind] = append(flat.artifacts[s.kind], entry{Key: k, Body: []byte(body)})
		}
	}

	fields, err := r.rdb.HGetAll(ctx, HierarchyKey(r.instance)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hierarchy from Redis: %w", err)
	}
	for field, body := range fields {
		leaf, id, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		flat.leaves = append(flat.leaves, leafEntry{Leaf: types.LeafPath(leaf), DefinitionID: id, Body: []byte(body)})
	}

	m, err := r.rdb.HGetAll(ctx, MetaKey(r.instance)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read meta from Redis: %w", err)
	}
	flat.meta.Version = m[metaVersion]
	flat.meta.NoHierarchy, _ = strconv.ParseBool(m[metaNoHierarchy])

	return assemble(flat), nil
}

// Save replaces every hash in a single MULTI/EXEC transaction.
func (r *RedisStore) Save(ctx context.Context, tax *types.Taxonomy) error {
	flat, err := flatten(tax)
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.keys()...)
		for _, s := range sections {
			rows := flat.artifacts[s.kind]
			if len(rows) == 0 {
				continue
			}
			values := make(map[string]any, len(rows))
			for _, row := range rows {
				values[row.Key] = string(row.Body)
			}
			pipe.HSet(ctx, ArtifactsKey(r.instance, s.name), values)
		}
		if len(flat.leaves) > 0 {
			values := make(map[string]any, len(flat.leaves))
			for _, row := range flat.leaves {
				values[string(row.Leaf)+":"+row.DefinitionID] = string(row.Body)
			}
			pipe.HSet(ctx, HierarchyKey(r.instance), values)
		}
		pipe.HSet(ctx, MetaKey(r.instance), map[string]any{
			metaVersion:     flat.meta.Version,
			metaNoHierarchy: strconv.FormatBool(flat.meta.NoHierarchy),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot to Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
