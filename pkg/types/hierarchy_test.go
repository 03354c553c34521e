package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHierarchyAllocatesEveryLeaf(t *testing.T) {
	h := NewHierarchy()
	assert.Len(t, LeafPaths, 10)
	for _, p := range LeafPaths {
		assert.NotNil(t, h.Leaf(p), "leaf %s", p)
	}
}

func TestHierarchyLeavesAreDistinct(t *testing.T) {
	h := NewHierarchy()
	for i, p := range LeafPaths {
		h.Leaf(p)[string(p)] = TokenTemplate{}
		for _, q := range LeafPaths[:i] {
			_, ok := h.Leaf(q)[string(p)]
			assert.False(t, ok, "writing %s leaked into %s", p, q)
		}
	}
}

func TestHierarchyLeafAbsentBranches(t *testing.T) {
	var nilHierarchy *Hierarchy
	assert.Nil(t, nilHierarchy.Leaf(LeafFungiblesWhole))

	h := &Hierarchy{Fungibles: &FungibleBranch{Whole: TemplateMap{}}}
	assert.NotNil(t, h.Leaf(LeafFungiblesWhole))
	assert.Nil(t, h.Leaf(LeafFungiblesFractional))
	assert.Nil(t, h.Leaf(LeafNonFungiblesWhole))
	assert.Nil(t, h.Leaf(LeafHybridsNonFungibleSingleton))
	assert.Nil(t, h.Leaf("unknown"))
}

func TestHierarchyClone(t *testing.T) {
	h := NewHierarchy()
	h.Leaf(LeafFungiblesWhole)["d1"] = TokenTemplate{
		Definition: TemplateDefinition{Artifact: Artifact{Name: "Coin"}},
	}
	h.Hybrids = nil

	cp := h.Clone()
	cp.Leaf(LeafFungiblesWhole)["d2"] = TokenTemplate{}
	tt := cp.Leaf(LeafFungiblesWhole)["d1"]
	tt.Definition.Artifact.Name = "Changed"
	cp.Leaf(LeafFungiblesWhole)["d1"] = tt

	assert.Len(t, h.Leaf(LeafFungiblesWhole), 1)
	assert.Equal(t, "Coin", h.Leaf(LeafFungiblesWhole)["d1"].Definition.Artifact.Name)
	assert.Nil(t, cp.Hybrids)
}
