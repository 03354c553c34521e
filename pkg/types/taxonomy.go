package types

// Taxonomy is the root aggregate: six typed sub-stores and the
// classification hierarchy. It is the unit of snapshotting.
//
// TemplateFormulas is keyed by Symbol.Tooling; every other map is keyed by
// Symbol.ID. A nil Hierarchy means the taxonomy has no hierarchy root.
type Taxonomy struct {
	Version             string                        `json:"version,omitempty"`
	Bases               map[string]Base               `json:"bases"`
	Behaviors           map[string]Behavior           `json:"behaviors"`
	BehaviorGroups      map[string]BehaviorGroup      `json:"behavior_groups"`
	PropertySets        map[string]PropertySet        `json:"property_sets"`
	TemplateFormulas    map[string]TemplateFormula    `json:"template_formulas"`
	TemplateDefinitions map[string]TemplateDefinition `json:"template_definitions"`
	Hierarchy           *Hierarchy                    `json:"hierarchy,omitempty"`
}

// NewTaxonomy returns an empty taxonomy with a fully allocated hierarchy.
func NewTaxonomy() *Taxonomy {
	t := &Taxonomy{Hierarchy: NewHierarchy()}
	t.Normalize()
	return t
}

// Normalize replaces nil sub-store maps with empty ones so that decoded
// snapshots can be written to without further checks. The hierarchy is left
// as is.
func (t *Taxonomy) Normalize() {
	if t.Bases == nil {
		t.Bases = map[string]Base{}
	}
	if t.Behaviors == nil {
		t.Behaviors = map[string]Behavior{}
	}
	if t.BehaviorGroups == nil {
		t.BehaviorGroups = map[string]BehaviorGroup{}
	}
	if t.PropertySets == nil {
		t.PropertySets = map[string]PropertySet{}
	}
	if t.TemplateFormulas == nil {
		t.TemplateFormulas = map[string]TemplateFormula{}
	}
	if t.TemplateDefinitions == nil {
		t.TemplateDefinitions = map[string]TemplateDefinition{}
	}
}

// Clone returns a deep, independent copy. Mutating the copy never affects
// the original and vice versa.
func (t *Taxonomy) Clone() *Taxonomy {
	if t == nil {
		return nil
	}
	return &Taxonomy{
		Version:             t.Version,
		Bases:               cloneMap(t.Bases, Base.Clone),
		Behaviors:           cloneMap(t.Behaviors, Behavior.Clone),
		BehaviorGroups:      cloneMap(t.BehaviorGroups, BehaviorGroup.Clone),
		PropertySets:        cloneMap(t.PropertySets, PropertySet.Clone),
		TemplateFormulas:    cloneMap(t.TemplateFormulas, TemplateFormula.Clone),
		TemplateDefinitions: cloneMap(t.TemplateDefinitions, TemplateDefinition.Clone),
		Hierarchy:           t.Hierarchy.Clone(),
	}
}

func cloneMap[T any](m map[string]T, clone func(T) T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}
