// Package types defines the artifact model, the Taxonomy aggregate, the
// ArtifactStore and SnapshotStore interfaces, and the standard errors for
// the token taxonomy designer.
//
// Every stored entity embeds an Artifact (name, symbol, file manifest).
// Entities point at each other through ArtifactReference values, never by
// embedding, except where a TemplateDefinition deliberately carries a
// denormalized copy of a building block.
package types
