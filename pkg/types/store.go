package types

import "context"

// ArtifactStore is the public operation surface over a Taxonomy. A store
// assumes a single logical writer; hosts that introduce more serialize
// calls themselves.
type ArtifactStore interface {
	// CreateArtifact decodes payload as the artifact type for kind and
	// stores it keyed by its symbol id (tooling for formulas), overwriting
	// any entry under that key. Creating a TEMPLATE_DEFINITION also files
	// it into the classification hierarchy. BASE is not creatable here.
	CreateArtifact(kind ArtifactKind, payload *Payload) error

	// UpdateArtifact overwrites the stored entry like CreateArtifact but
	// never touches the hierarchy. BASE is accepted.
	UpdateArtifact(kind ArtifactKind, payload *Payload) error

	// DeleteArtifact removes the artifact identified by symbol.ID. Deleting
	// a definition also removes it from every hierarchy leaf.
	DeleteArtifact(symbol ArtifactSymbol) error

	// CreateTemplateDefinition materializes a new definition named
	// tokenName from the formula whose symbol id is formulaID.
	CreateTemplateDefinition(formulaID, tokenName string) (TemplateDefinition, error)

	// GetFullTaxonomy returns a deep copy of the whole aggregate.
	GetFullTaxonomy() *Taxonomy

	GetTemplateDefinitionArtifact(symbol ArtifactSymbol) (TemplateDefinition, error)
	// GetTemplateFormulaArtifact matches on symbol.Tooling.
	GetTemplateFormulaArtifact(symbol ArtifactSymbol) (TemplateFormula, error)
	GetBehaviorArtifact(symbol ArtifactSymbol) (Behavior, error)
	GetBehaviorGroupArtifact(symbol ArtifactSymbol) (BehaviorGroup, error)
	GetPropertySetArtifact(symbol ArtifactSymbol) (PropertySet, error)
	GetBaseArtifact(symbol ArtifactSymbol) (Base, error)

	// ListArtifacts returns the symbols of every artifact of kind, ordered
	// by name then id.
	ListArtifacts(kind ArtifactKind) ([]ArtifactSymbol, error)

	// Classification reports the hierarchy leaf holding definitionID.
	Classification(definitionID string) (LeafPath, bool)
}

// SnapshotStore loads and saves whole taxonomies. Implementations own the
// byte format; the store only sees the decoded aggregate.
type SnapshotStore interface {
	// Load returns the stored taxonomy, or an empty one when nothing has
	// been saved yet.
	Load(ctx context.Context) (*Taxonomy, error)

	// Save replaces the stored snapshot with tax.
	Save(ctx context.Context, tax *Taxonomy) error

	// Close releases backend resources. Idempotent.
	Close() error
}
