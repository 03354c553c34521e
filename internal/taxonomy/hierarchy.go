package taxonomy

import (
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// hierarchyIndex maintains the classification tree together with a side
// index recording which leaf holds each definition id.
type hierarchyIndex struct {
	root   *types.Hierarchy
	leaves map[string]types.LeafPath
	// duplicated is set when the loaded tree held some id in more than one
	// leaf; removals then sweep every leaf instead of trusting the index.
	duplicated bool
}

// newHierarchyIndex builds the side index from whatever the tree already
// holds. When a loaded snapshot carries an id in several leaves, the first
// in LeafPaths order is recorded; removeAll still clears all of them.
func newHierarchyIndex(root *types.Hierarchy) *hierarchyIndex {
	idx := &hierarchyIndex{root: root, leaves: make(map[string]types.LeafPath)}
	for _, p := range types.LeafPaths {
		for id := range root.Leaf(p) {
			if _, seen := idx.leaves[id]; seen {
				idx.duplicated = true
				continue
			}
			idx.leaves[id] = p
		}
	}
	return idx
}

// insert files tmpl under id at path, overwriting any entry with that id
// and moving it out of any other leaf. It reports false, changing nothing,
// when the root or the leaf is absent.
func (h *hierarchyIndex) insert(path types.LeafPath, id string, tmpl types.TokenTemplate) bool {
	leaf := h.root.Leaf(path)
	if leaf == nil {
		return false
	}
	if prev, ok := h.leaves[id]; (ok && prev != path) || h.duplicated {
		h.removeAll(id)
	}
	leaf[id] = tmpl
	h.leaves[id] = path
	return true
}

// removeAll deletes id from every leaf holding it and returns how many did.
// A recorded id is removed from its leaf directly; unrecorded ids, and any id
// once the tree is known to hold duplicates, fall back to sweeping all ten
// leaves.
func (h *hierarchyIndex) removeAll(id string) int {
	p, recorded := h.leaves[id]
	delete(h.leaves, id)
	if recorded && !h.duplicated {
		leaf := h.root.Leaf(p)
		if _, ok := leaf[id]; ok {
			delete(leaf, id)
			return 1
		}
	}
	removed := 0
	for _, p := range types.LeafPaths {
		leaf := h.root.Leaf(p)
		if _, ok := leaf[id]; ok {
			delete(leaf, id)
			removed++
		}
	}
	return removed
}

// locate returns the leaf holding id.
func (h *hierarchyIndex) locate(id string) (types.LeafPath, bool) {
	p, ok := h.leaves[id]
	return p, ok
}
