package types

// TemplateType tags a formula as fungible, non-fungible, or hybrid.
type TemplateType string

// Template types.
const (
	TemplateFungible    TemplateType = "FUNGIBLE"
	TemplateNonFungible TemplateType = "NON_FUNGIBLE"
	TemplateHybrid      TemplateType = "HYBRID"
)

// Base describes a token's fundamental category. Its name drives where
// definitions built on it are classified.
type Base struct {
	Artifact Artifact `json:"artifact"`
}

// Clone returns a deep copy.
func (b Base) Clone() Base {
	b.Artifact = b.Artifact.Clone()
	return b
}

// Behavior is a reusable capability: its properties and invocations.
type Behavior struct {
	Artifact    Artifact     `json:"artifact"`
	Properties  []Property   `json:"properties,omitempty"`
	Invocations []Invocation `json:"invocations,omitempty"`
}

// Clone returns a deep copy.
func (b Behavior) Clone() Behavior {
	b.Artifact = b.Artifact.Clone()
	b.Properties = cloneProperties(b.Properties)
	b.Invocations = cloneInvocations(b.Invocations)
	return b
}

// BehaviorGroup bundles behaviors by reference.
type BehaviorGroup struct {
	Artifact  Artifact            `json:"artifact"`
	Behaviors []ArtifactReference `json:"behaviors,omitempty"`
}

// Clone returns a deep copy.
func (g BehaviorGroup) Clone() BehaviorGroup {
	g.Artifact = g.Artifact.Clone()
	g.Behaviors = cloneSlice(g.Behaviors)
	return g
}

// PropertySet is a reusable list of properties.
type PropertySet struct {
	Artifact   Artifact   `json:"artifact"`
	Properties []Property `json:"properties,omitempty"`
}

// Clone returns a deep copy.
func (s PropertySet) Clone() PropertySet {
	s.Artifact = s.Artifact.Clone()
	s.Properties = cloneProperties(s.Properties)
	return s
}

// TemplateFormula is a reusable token template: a base plus building blocks,
// all held by reference. Formulas are stored keyed by Symbol.Tooling.
type TemplateFormula struct {
	Artifact       Artifact            `json:"artifact"`
	TemplateType   TemplateType        `json:"template_type"`
	TokenBase      *ArtifactReference  `json:"token_base,omitempty"`
	Behaviors      []ArtifactReference `json:"behaviors,omitempty"`
	BehaviorGroups []ArtifactReference `json:"behavior_groups,omitempty"`
	PropertySets   []ArtifactReference `json:"property_sets,omitempty"`
	// ChildTokens references child formulas; only meaningful for HYBRID.
	ChildTokens []ArtifactReference `json:"child_tokens,omitempty"`
}

// Clone returns a deep copy.
func (f TemplateFormula) Clone() TemplateFormula {
	f.Artifact = f.Artifact.Clone()
	f.TokenBase = cloneRef(f.TokenBase)
	f.Behaviors = cloneSlice(f.Behaviors)
	f.BehaviorGroups = cloneSlice(f.BehaviorGroups)
	f.PropertySets = cloneSlice(f.PropertySets)
	f.ChildTokens = cloneSlice(f.ChildTokens)
	return f
}

// BehaviorReference is a behavior denormalized into a definition: the
// reference plus a copy of the behavior's properties and invocations taken
// when the definition was materialized.
type BehaviorReference struct {
	Reference   ArtifactReference `json:"reference"`
	IsExternal  bool              `json:"is_external"`
	Properties  []Property        `json:"properties,omitempty"`
	Invocations []Invocation      `json:"invocations,omitempty"`
}

// BehaviorGroupReference carries a copy of a group's member list.
type BehaviorGroupReference struct {
	Reference ArtifactReference   `json:"reference"`
	Behaviors []ArtifactReference `json:"behaviors,omitempty"`
}

// PropertySetReference carries a copy of a property set's properties.
type PropertySetReference struct {
	Reference  ArtifactReference `json:"reference"`
	Properties []Property        `json:"properties,omitempty"`
}

// TemplateDefinition is a concrete, editable instantiation of a formula.
// Definitions are stored keyed by Symbol.ID.
type TemplateDefinition struct {
	Artifact         Artifact                 `json:"artifact"`
	FormulaReference ArtifactReference        `json:"formula_reference"`
	TokenBase        *ArtifactReference       `json:"token_base,omitempty"`
	Behaviors        []BehaviorReference      `json:"behaviors,omitempty"`
	BehaviorGroups   []BehaviorGroupReference `json:"behavior_groups,omitempty"`
	PropertySets     []PropertySetReference   `json:"property_sets,omitempty"`
	// ChildTokens holds the materialized children of a hybrid definition.
	ChildTokens []TemplateDefinition `json:"child_tokens,omitempty"`
}

// Clone returns a deep copy, including nested child definitions.
func (d TemplateDefinition) Clone() TemplateDefinition {
	d.Artifact = d.Artifact.Clone()
	d.TokenBase = cloneRef(d.TokenBase)
	if d.Behaviors != nil {
		bs := make([]BehaviorReference, len(d.Behaviors))
		for i, b := range d.Behaviors {
			b.Properties = cloneProperties(b.Properties)
			b.Invocations = cloneInvocations(b.Invocations)
			bs[i] = b
		}
		d.Behaviors = bs
	}
	if d.BehaviorGroups != nil {
		gs := make([]BehaviorGroupReference, len(d.BehaviorGroups))
		for i, g := range d.BehaviorGroups {
			g.Behaviors = cloneSlice(g.Behaviors)
			gs[i] = g
		}
		d.BehaviorGroups = gs
	}
	if d.PropertySets != nil {
		ps := make([]PropertySetReference, len(d.PropertySets))
		for i, p := range d.PropertySets {
			p.Properties = cloneProperties(p.Properties)
			ps[i] = p
		}
		d.PropertySets = ps
	}
	if d.ChildTokens != nil {
		cs := make([]TemplateDefinition, len(d.ChildTokens))
		for i, c := range d.ChildTokens {
			cs[i] = c.Clone()
		}
		d.ChildTokens = cs
	}
	return d
}
