package types

// LeafPath names one leaf of the classification hierarchy.
type LeafPath string

// The ten leaves of the hierarchy.
const (
	LeafFungiblesWhole               LeafPath = "fungibles.whole"
	LeafFungiblesFractional          LeafPath = "fungibles.fractional"
	LeafNonFungiblesWhole            LeafPath = "non_fungibles.whole"
	LeafNonFungiblesFractional       LeafPath = "non_fungibles.fractional"
	LeafNonFungiblesSingleton        LeafPath = "non_fungibles.singleton"
	LeafHybridsFungibleWhole         LeafPath = "hybrids.fungible.whole"
	LeafHybridsFungibleFractional    LeafPath = "hybrids.fungible.fractional"
	LeafHybridsNonFungibleWhole      LeafPath = "hybrids.non_fungible.whole"
	LeafHybridsNonFungibleFractional LeafPath = "hybrids.non_fungible.fractional"
	LeafHybridsNonFungibleSingleton  LeafPath = "hybrids.non_fungible.singleton"
)

// LeafPaths lists every leaf in display order.
var LeafPaths = []LeafPath{
	LeafFungiblesWhole,
	LeafFungiblesFractional,
	LeafNonFungiblesWhole,
	LeafNonFungiblesFractional,
	LeafNonFungiblesSingleton,
	LeafHybridsFungibleWhole,
	LeafHybridsFungibleFractional,
	LeafHybridsNonFungibleWhole,
	LeafHybridsNonFungibleFractional,
	LeafHybridsNonFungibleSingleton,
}

// TokenTemplate pairs a definition with the formula it came from. It is the
// unit stored at hierarchy leaves. Formula is nil when it could not be
// resolved at classification time.
type TokenTemplate struct {
	Definition TemplateDefinition `json:"definition"`
	Formula    *TemplateFormula   `json:"formula,omitempty"`
}

// Clone returns a deep copy.
func (t TokenTemplate) Clone() TokenTemplate {
	t.Definition = t.Definition.Clone()
	if t.Formula != nil {
		f := t.Formula.Clone()
		t.Formula = &f
	}
	return t
}

// TemplateMap holds the templates of one leaf keyed by definition id.
type TemplateMap map[string]TokenTemplate

// Clone returns a deep copy, preserving nil.
func (m TemplateMap) Clone() TemplateMap {
	if m == nil {
		return nil
	}
	out := make(TemplateMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// FungibleBranch splits fungible templates by divisibility.
type FungibleBranch struct {
	Whole      TemplateMap `json:"whole"`
	Fractional TemplateMap `json:"fractional"`
}

// NonFungibleBranch splits non-fungible templates by divisibility, plus a
// singleton leaf.
type NonFungibleBranch struct {
	Whole      TemplateMap `json:"whole"`
	Fractional TemplateMap `json:"fractional"`
	Singleton  TemplateMap `json:"singleton"`
}

// HybridBranch mirrors the top-level split for hybrid templates.
type HybridBranch struct {
	Fungible    *FungibleBranch    `json:"fungible,omitempty"`
	NonFungible *NonFungibleBranch `json:"non_fungible,omitempty"`
}

// Hierarchy is the fixed-shape classification tree. A nil branch means the
// branch is absent; lookups under it return a nil TemplateMap.
type Hierarchy struct {
	Fungibles    *FungibleBranch    `json:"fungibles,omitempty"`
	NonFungibles *NonFungibleBranch `json:"non_fungibles,omitempty"`
	Hybrids      *HybridBranch      `json:"hybrids,omitempty"`
}

// NewHierarchy returns a hierarchy with every branch and leaf allocated.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		Fungibles:    newFungibleBranch(),
		NonFungibles: newNonFungibleBranch(),
		Hybrids: &HybridBranch{
			Fungible:    newFungibleBranch(),
			NonFungible: newNonFungibleBranch(),
		},
	}
}

func newFungibleBranch() *FungibleBranch {
	return &FungibleBranch{Whole: TemplateMap{}, Fractional: TemplateMap{}}
}

func newNonFungibleBranch() *NonFungibleBranch {
	return &NonFungibleBranch{Whole: TemplateMap{}, Fractional: TemplateMap{}, Singleton: TemplateMap{}}
}

// Leaf returns the template map at path, or nil when the path is unknown or
// any branch on the way is absent. The returned map is the live leaf.
func (h *Hierarchy) Leaf(path LeafPath) TemplateMap {
	if h == nil {
		return nil
	}
	switch path {
	case LeafFungiblesWhole, LeafFungiblesFractional:
		return h.Fungibles.leaf(path == LeafFungiblesFractional)
	case LeafNonFungiblesWhole:
		return h.NonFungibles.leaf(divWhole)
	case LeafNonFungiblesFractional:
		return h.NonFungibles.leaf(divFractional)
	case LeafNonFungiblesSingleton:
		return h.NonFungibles.leaf(divSingleton)
	case LeafHybridsFungibleWhole, LeafHybridsFungibleFractional:
		if h.Hybrids == nil {
			return nil
		}
		return h.Hybrids.Fungible.leaf(path == LeafHybridsFungibleFractional)
	case LeafHybridsNonFungibleWhole, LeafHybridsNonFungibleFractional, LeafHybridsNonFungibleSingleton:
		if h.Hybrids == nil {
			return nil
		}
		switch path {
		case LeafHybridsNonFungibleFractional:
			return h.Hybrids.NonFungible.leaf(divFractional)
		case LeafHybridsNonFungibleSingleton:
			return h.Hybrids.NonFungible.leaf(divSingleton)
		}
		return h.Hybrids.NonFungible.leaf(divWhole)
	}
	return nil
}

type divisibility int

const (
	divWhole divisibility = iota
	divFractional
	divSingleton
)

func (b *FungibleBranch) leaf(fractional bool) TemplateMap {
	if b == nil {
		return nil
	}
	if fractional {
		return b.Fractional
	}
	return b.Whole
}

func (b *NonFungibleBranch) leaf(d divisibility) TemplateMap {
	if b == nil {
		return nil
	}
	switch d {
	case divFractional:
		return b.Fractional
	case divSingleton:
		return b.Singleton
	}
	return b.Whole
}

// Clone returns a deep copy, preserving absent branches.
func (h *Hierarchy) Clone() *Hierarchy {
	if h == nil {
		return nil
	}
	return &Hierarchy{
		Fungibles:    h.Fungibles.clone(),
		NonFungibles: h.NonFungibles.clone(),
		Hybrids:      h.Hybrids.clone(),
	}
}

func (b *FungibleBranch) clone() *FungibleBranch {
	if b == nil {
		return nil
	}
	return &FungibleBranch{Whole: b.Whole.Clone(), Fractional: b.Fractional.Clone()}
}

func (b *NonFungibleBranch) clone() *NonFungibleBranch {
	if b == nil {
		return nil
	}
	return &NonFungibleBranch{
		Whole:      b.Whole.Clone(),
		Fractional: b.Fractional.Clone(),
		Singleton:  b.Singleton.Clone(),
	}
}

func (b *HybridBranch) clone() *HybridBranch {
	if b == nil {
		return nil
	}
	return &HybridBranch{Fungible: b.Fungible.clone(), NonFungible: b.NonFungible.clone()}
}
