package taxonomy

import (
	"cmp"
	"maps"
	"slices"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// table is one id-keyed sub-store. It operates directly on the map owned by
// the Taxonomy so that the aggregate and the store never diverge.
type table[T any] struct {
	kind     types.ArtifactKind
	rows     map[string]T
	artifact func(T) types.Artifact
	clone    func(T) T
}

func newTable[T any](kind types.ArtifactKind, rows map[string]T, artifact func(T) types.Artifact, clone func(T) T) *table[T] {
	return &table[T]{kind: kind, rows: rows, artifact: artifact, clone: clone}
}

func (t *table[T]) set(key string, v T) {
	t.rows[key] = v
}

// find returns the entry whose artifact symbol id equals id along with the
// key it is stored under. Entries are normally keyed by that same id, so
// the direct lookup almost always hits; the ordered scan covers snapshots
// whose keys drifted from their symbols.
func (t *table[T]) find(id string) (string, T, bool) {
	var zero T
	if id == "" {
		return "", zero, false
	}
	if v, ok := t.rows[id]; ok && t.artifact(v).Symbol.ID == id {
		return id, v, true
	}
	for _, k := range slices.Sorted(maps.Keys(t.rows)) {
		v := t.rows[k]
		if t.artifact(v).Symbol.ID == id {
			return k, v, true
		}
	}
	return "", zero, false
}

// get returns a deep copy of the entry with symbol id equal to id.
func (t *table[T]) get(id string) (T, bool) {
	_, v, ok := t.find(id)
	if !ok {
		return v, false
	}
	return t.clone(v), true
}

// remove deletes the entry stored under id, or failing that the entry whose
// symbol id is id. It reports whether anything was removed.
func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; ok {
		delete(t.rows, id)
		return true
	}
	key, _, ok := t.find(id)
	if !ok {
		return false
	}
	delete(t.rows, key)
	return true
}

func (t *table[T]) symbols() []types.ArtifactSymbol {
	out := make([]types.ArtifactSymbol, 0, len(t.rows))
	names := make(map[types.ArtifactSymbol]string, len(t.rows))
	for _, v := range t.rows {
		a := t.artifact(v)
		out = append(out, a.Symbol)
		names[a.Symbol] = a.Name
	}
	sortSymbols(out, names)
	return out
}

// sortSymbols orders symbols by artifact name, then id, then tooling.
func sortSymbols(syms []types.ArtifactSymbol, names map[types.ArtifactSymbol]string) {
	slices.SortFunc(syms, func(a, b types.ArtifactSymbol) int {
		return cmp.Or(
			cmp.Compare(names[a], names[b]),
			cmp.Compare(a.ID, b.ID),
			cmp.Compare(a.Tooling, b.Tooling),
		)
	})
}
