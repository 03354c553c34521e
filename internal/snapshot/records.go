// Package snapshot persists a whole Taxonomy to a JSONL directory, a SQLite
// database, or Redis. Every backend stores the same flattened record form:
// one JSON body per sub-store entry, one per hierarchy leaf entry, and a
// small metadata record.
package snapshot

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// section names one artifact sub-store in persisted form.
type section struct {
	kind types.ArtifactKind
	name string
}

// sections lists the sub-stores in persistence order.
var sections = []section{
	{types.KindBase, "bases"},
	{types.KindBehavior, "behaviors"},
	{types.KindBehaviorGroup, "behavior_groups"},
	{types.KindPropertySet, "property_sets"},
	{types.KindTemplateFormula, "template_formulas"},
	{types.KindTemplateDefinition, "template_definitions"},
}

// entry is one sub-store row: the map key and the encoded artifact.
type entry struct {
	Key  string          `json:"key"`
	Body json.RawMessage `json:"body"`
}

// leafEntry is one hierarchy row: a TokenTemplate filed under a leaf.
type leafEntry struct {
	Leaf         types.LeafPath  `json:"leaf"`
	DefinitionID string          `json:"definition_id"`
	Body         json.RawMessage `json:"body"`
}

// meta carries the taxonomy-level fields.
type meta struct {
	Version     string `json:"version,omitempty"`
	NoHierarchy bool   `json:"no_hierarchy,omitempty"`
}

// flatTaxonomy is the persisted form of a Taxonomy.
type flatTaxonomy struct {
	meta      meta
	artifacts map[types.ArtifactKind][]entry
	leaves    []leafEntry
}

// flatten encodes tax into records with deterministic ordering.
func flatten(tax *types.Taxonomy) (*flatTaxonomy, error) {
	if tax == nil {
		tax = types.NewTaxonomy()
	}
	flat := &flatTaxonomy{
		meta:      meta{Version: tax.Version, NoHierarchy: tax.Hierarchy == nil},
		artifacts: make(map[types.ArtifactKind][]entry, len(sections)),
	}
	var err error
	for _, s := range sections {
		var rows []entry
		switch s.kind {
		case types.KindBase:
			rows, err = flattenMap(tax.Bases)
		case types.KindBehavior:
			rows, err = flattenMap(tax.Behaviors)
		case types.KindBehaviorGroup:
			rows, err = flattenMap(tax.BehaviorGroups)
		case types.KindPropertySet:
			rows, err = flattenMap(tax.PropertySets)
		case types.KindTemplateFormula:
			rows, err = flattenMap(tax.TemplateFormulas)
		case types.KindTemplateDefinition:
			rows, err = flattenMap(tax.TemplateDefinitions)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", s.name, err)
		}
		flat.artifacts[s.kind] = rows
	}
	for _, p := range types.LeafPaths {
		leaf := tax.Hierarchy.Leaf(p)
		for _, id := range slices.Sorted(maps.Keys(leaf)) {
			body, err := json.Marshal(leaf[id])
			if err != nil {
				return nil, fmt.Errorf("encoding hierarchy %s/%s: %w", p, id, err)
			}
			flat.leaves = append(flat.leaves, leafEntry{Leaf: p, DefinitionID: id, Body: body})
		}
	}
	return flat, nil
}

func flattenMap[T any](m map[string]T) ([]entry, error) {
	rows := make([]entry, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		body, err := json.Marshal(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		rows = append(rows, entry{Key: k, Body: body})
	}
	return rows, nil
}

// assemble decodes records back into a Taxonomy. Rows whose body does not
// decode, and hierarchy rows naming an unknown leaf, are skipped. A
// taxonomy that was saved with a hierarchy gets a fully allocated one.
func assemble(flat *flatTaxonomy) *types.Taxonomy {
	tax := types.NewTaxonomy()
	tax.Version = flat.meta.Version
	tax.Bases = assembleMap[types.Base](flat.artifacts[types.KindBase])
	tax.Behaviors = assembleMap[types.Behavior](flat.artifacts[types.KindBehavior])
	tax.BehaviorGroups = assembleMap[types.BehaviorGroup](flat.artifacts[types.KindBehaviorGroup])
	tax.PropertySets = assembleMap[types.PropertySet](flat.artifacts[types.KindPropertySet])
	tax.TemplateFormulas = assembleMap[types.TemplateFormula](flat.artifacts[types.KindTemplateFormula])
	tax.TemplateDefinitions = assembleMap[types.TemplateDefinition](flat.artifacts[types.KindTemplateDefinition])

	if flat.meta.NoHierarchy {
		tax.Hierarchy = nil
		return tax
	}
	for _, row := range flat.leaves {
		leaf := tax.Hierarchy.Leaf(row.Leaf)
		if leaf == nil || row.DefinitionID == "" {
			continue
		}
		var tmpl types.TokenTemplate
		if err := json.Unmarshal(row.Body, &tmpl); err != nil {
			continue
		}
		leaf[row.DefinitionID] = tmpl
	}
	return tax
}

func assembleMap[T any](rows []entry) map[string]T {
	m := make(map[string]T, len(rows))
	for _, row := range rows {
		var v T
		if row.Key == "" {
			continue
		}
		if err := json.Unmarshal(row.Body, &v); err != nil {
			continue
		}
		m[row.Key] = v
	}
	return m
}
