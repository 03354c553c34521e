package taxonomy

import (
	"fmt"
	"strings"
	"time"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// CreateTemplateDefinition implements types.ArtifactStore. The formula is
// resolved by symbol id. Hybrid formulas have every child formula
// materialized recursively into ChildTokens; nothing is stored until the
// whole tree has been built, so a missing child or a formula cycle leaves
// the store untouched.
func (s *Store) CreateTemplateDefinition(formulaID, tokenName string) (def types.TemplateDefinition, err error) {
	defer s.observe(opCreateDefinition, time.Now(), &err)

	_, formula, ok := s.formulas.byID(formulaID)
	if !ok {
		return types.TemplateDefinition{}, fmt.Errorf("formula %q: %w", formulaID, types.ErrNotFound)
	}

	def, err = s.materialize(formula, formulaID, tokenName, map[string]bool{})
	if err != nil {
		return types.TemplateDefinition{}, err
	}

	id := def.Artifact.Symbol.ID
	s.definitions.set(id, def)
	baseID := ""
	if formula.TokenBase != nil {
		baseID = formula.TokenBase.ID
	}
	s.classify(def, &formula, baseID)
	s.log.Info("definition.created", "definition", id, "formula", formulaID, "name", tokenName)
	return def.Clone(), nil
}

// materialize builds a definition from formula without touching the store.
// visiting holds the formula ids on the current descent path.
func (s *Store) materialize(formula types.TemplateFormula, formulaID, tokenName string, visiting map[string]bool) (types.TemplateDefinition, error) {
	if visiting[formulaID] {
		return types.TemplateDefinition{}, fmt.Errorf("formula %q: %w: child token cycle", formulaID, types.ErrValidation)
	}
	visiting[formulaID] = true
	defer delete(visiting, formulaID)

	def := types.TemplateDefinition{
		Artifact: definitionArtifact(formula.Artifact, tokenName, s.newID()),
		FormulaReference: types.ArtifactReference{
			ID:    formulaID,
			Kind:  types.KindTemplateFormula,
			Notes: formula.Artifact.Name,
		},
	}
	if formula.TokenBase != nil && formula.TokenBase.ID != "" {
		base := *formula.TokenBase
		base.Kind = types.KindBase
		def.TokenBase = &base
	}

	for _, ref := range formula.Behaviors {
		if ref.ID == "" {
			continue
		}
		b, _ := s.behaviors.get(ref.ID)
		def.Behaviors = append(def.Behaviors, types.BehaviorReference{
			Reference:   types.ArtifactReference{ID: ref.ID, Kind: types.KindBehavior, Notes: ref.Notes},
			IsExternal:  true,
			Properties:  b.Properties,
			Invocations: b.Invocations,
		})
	}
	for _, ref := range formula.BehaviorGroups {
		if ref.ID == "" {
			continue
		}
		g, _ := s.groups.get(ref.ID)
		def.BehaviorGroups = append(def.BehaviorGroups, types.BehaviorGroupReference{
			Reference: types.ArtifactReference{ID: ref.ID, Kind: types.KindBehaviorGroup, Notes: ref.Notes},
			Behaviors: g.Behaviors,
		})
	}
	for _, ref := range formula.PropertySets {
		if ref.ID == "" {
			continue
		}
		ps, _ := s.propertySets.get(ref.ID)
		def.PropertySets = append(def.PropertySets, types.PropertySetReference{
			Reference:  types.ArtifactReference{ID: ref.ID, Kind: types.KindPropertySet, Notes: ref.Notes},
			Properties: ps.Properties,
		})
	}

	if formula.TemplateType != types.TemplateHybrid {
		return def, nil
	}
	for _, ref := range formula.ChildTokens {
		_, child, ok := s.formulas.byID(ref.ID)
		if !ok {
			return types.TemplateDefinition{}, fmt.Errorf("child formula %q of %q: %w", ref.ID, formulaID, types.ErrNotFound)
		}
		childDef, err := s.materialize(child, ref.ID, child.Artifact.Name, visiting)
		if err != nil {
			return types.TemplateDefinition{}, err
		}
		def.ChildTokens = append(def.ChildTokens, childDef)
	}
	return def, nil
}

// definitionArtifact derives a definition's artifact from its formula's:
// files are renamed by replacing the first occurrence of the formula name
// with the token name, and the symbol gets a fresh id while keeping the
// formula's tooling.
func definitionArtifact(formula types.Artifact, tokenName, id string) types.Artifact {
	a := formula.Clone()
	if formula.Name != "" {
		for i := range a.Files {
			a.Files[i].FileName = strings.Replace(a.Files[i].FileName, formula.Name, tokenName, 1)
		}
	}
	a.Name = tokenName
	a.Symbol.ID = id
	a.Symbol.Kind = types.KindTemplateDefinition
	return a
}
