// Tests for the artifact store facade: create/update/delete round trips,
// overwrite semantics, lookup failures and snapshot isolation.
package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

func TestCreateArtifactRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		kind  types.ArtifactKind
		value any
		get   func(s *Store) (any, error)
	}{
		{
			name:  "behavior",
			kind:  types.KindBehavior,
			value: behavior("behavior-new", "Burnable"),
			get: func(s *Store) (any, error) {
				return s.GetBehaviorArtifact(symbol(types.KindBehavior, "behavior-new", ""))
			},
		},
		{
			name: "behavior group",
			kind: types.KindBehaviorGroup,
			value: types.BehaviorGroup{
				Artifact:  types.Artifact{Name: "Mint", Symbol: symbol(types.KindBehaviorGroup, "group-new", "M")},
				Behaviors: []types.ArtifactReference{{ID: behaviorTransferable, Kind: types.KindBehavior}},
			},
			get: func(s *Store) (any, error) {
				return s.GetBehaviorGroupArtifact(symbol(types.KindBehaviorGroup, "group-new", ""))
			},
		},
		{
			name: "property set",
			kind: types.KindPropertySet,
			value: types.PropertySet{
				Artifact:   types.Artifact{Name: "Serial", Symbol: symbol(types.KindPropertySet, "ps-new", "phS")},
				Properties: []types.Property{{Name: "Serial", Properties: []types.Property{{Name: "Prefix"}}}},
			},
			get: func(s *Store) (any, error) {
				return s.GetPropertySetArtifact(symbol(types.KindPropertySet, "ps-new", ""))
			},
		},
		{
			name:  "template formula",
			kind:  types.KindTemplateFormula,
			value: formula("formula-new", "tN{t}", "Ticket", baseNonFungibleFractional),
			get: func(s *Store) (any, error) {
				return s.GetTemplateFormulaArtifact(symbol(types.KindTemplateFormula, "", "tN{t}"))
			},
		},
		{
			name: "template definition",
			kind: types.KindTemplateDefinition,
			value: types.TemplateDefinition{
				Artifact:         types.Artifact{Name: "Points", Symbol: symbol(types.KindTemplateDefinition, "def-new", formulaLoyaltyTooling)},
				FormulaReference: types.ArtifactReference{ID: formulaLoyalty, Kind: types.KindTemplateFormula, Notes: "Loyalty"},
				TokenBase:        &types.ArtifactReference{ID: baseFungibleWhole, Kind: types.KindBase},
			},
			get: func(s *Store) (any, error) {
				return s.GetTemplateDefinitionArtifact(symbol(types.KindTemplateDefinition, "def-new", ""))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFixtureStore(t)
			require.NoError(t, s.CreateArtifact(tt.kind, pack(t, tt.kind, tt.value)))

			got, err := tt.get(s)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestCreateArtifactOverwrites(t *testing.T) {
	s := newFixtureStore(t)
	first := behavior("behavior-x", "Pausable")
	second := behavior("behavior-x", "Pausable")
	second.Properties = nil
	second.Artifact.Name = "Pausable v2"

	require.NoError(t, s.CreateArtifact(types.KindBehavior, pack(t, types.KindBehavior, first)))
	require.NoError(t, s.CreateArtifact(types.KindBehavior, pack(t, types.KindBehavior, second)))

	got, err := s.GetBehaviorArtifact(symbol(types.KindBehavior, "behavior-x", ""))
	require.NoError(t, err)
	assert.Equal(t, second, got)

	count := 0
	for _, sym := range must(s.ListArtifacts(types.KindBehavior)) {
		if sym.ID == "behavior-x" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreateArtifactBaseUnsupported(t *testing.T) {
	s := newFixtureStore(t)
	err := s.CreateArtifact(types.KindBase, pack(t, types.KindBase, base("base-new", "Fungible Whole")))
	assert.ErrorIs(t, err, types.ErrUnsupportedKind)

	_, err = s.GetBaseArtifact(symbol(types.KindBase, "base-new", ""))
	assert.ErrorIs(t, err, types.ErrNotFound)

	got, err := s.GetBaseArtifact(symbol(types.KindBase, baseFungibleWhole, ""))
	require.NoError(t, err)
	assert.Equal(t, "Fungible Whole Token", got.Artifact.Name)
}

func TestCreateArtifactValidation(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.ArtifactKind
		payload *types.Payload
		wantErr error
	}{
		{name: "nil payload", kind: types.KindBehavior, payload: nil, wantErr: types.ErrValidation},
		{name: "empty value", kind: types.KindBehavior, payload: &types.Payload{}, wantErr: types.ErrValidation},
		{name: "undecodable", kind: types.KindPropertySet, payload: &types.Payload{Value: []byte("{")}, wantErr: types.ErrValidation},
		{
			name:    "type mismatch",
			kind:    types.KindBehavior,
			payload: &types.Payload{TypeURL: types.TypeURL(types.KindPropertySet), Value: []byte("{}")},
			wantErr: types.ErrValidation,
		},
		{name: "missing id", kind: types.KindBehaviorGroup, payload: &types.Payload{Value: []byte(`{"artifact":{"name":"x"}}`)}, wantErr: types.ErrValidation},
		{name: "formula missing tooling", kind: types.KindTemplateFormula, payload: &types.Payload{Value: []byte(`{"artifact":{"symbol":{"id":"f"}}}`)}, wantErr: types.ErrValidation},
		{name: "unknown kind", kind: types.ArtifactKind("TOKEN"), payload: &types.Payload{Value: []byte("{}")}, wantErr: types.ErrUnsupportedKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFixtureStore(t)
			before := s.GetFullTaxonomy()
			err := s.CreateArtifact(tt.kind, tt.payload)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, s.GetFullTaxonomy())
		})
	}
}

func TestCreateDefinitionClassifies(t *testing.T) {
	s := newFixtureStore(t)
	def := types.TemplateDefinition{
		Artifact:         types.Artifact{Name: "Points", Symbol: symbol(types.KindTemplateDefinition, "def-direct", formulaLoyaltyTooling)},
		FormulaReference: types.ArtifactReference{ID: formulaLoyalty, Kind: types.KindTemplateFormula},
		TokenBase:        &types.ArtifactReference{ID: baseNonFungibleFractional, Kind: types.KindBase},
	}
	require.NoError(t, s.CreateArtifact(types.KindTemplateDefinition, pack(t, types.KindTemplateDefinition, def)))

	leaf, ok := s.Classification("def-direct")
	require.True(t, ok)
	assert.Equal(t, types.LeafNonFungiblesFractional, leaf)

	tmpl := s.GetFullTaxonomy().Hierarchy.Leaf(leaf)["def-direct"]
	assert.Equal(t, def, tmpl.Definition)
	require.NotNil(t, tmpl.Formula)
	assert.Equal(t, formulaLoyaltyTooling, tmpl.Formula.Artifact.Symbol.Tooling)
}

func TestCreateDefinitionUnknownBaseSkipsHierarchy(t *testing.T) {
	s := newFixtureStore(t)
	def := types.TemplateDefinition{
		Artifact:  types.Artifact{Name: "Orphan", Symbol: symbol(types.KindTemplateDefinition, "def-orphan", "")},
		TokenBase: &types.ArtifactReference{ID: "no-such-base", Kind: types.KindBase},
	}
	require.NoError(t, s.CreateArtifact(types.KindTemplateDefinition, pack(t, types.KindTemplateDefinition, def)))

	_, err := s.GetTemplateDefinitionArtifact(symbol(types.KindTemplateDefinition, "def-orphan", ""))
	require.NoError(t, err)
	_, ok := s.Classification("def-orphan")
	assert.False(t, ok)
}

func TestUpdateArtifact(t *testing.T) {
	t.Run("base is updatable", func(t *testing.T) {
		s := newFixtureStore(t)
		b := base(baseFungibleWhole, "Fungible Whole Token v2")
		require.NoError(t, s.UpdateArtifact(types.KindBase, pack(t, types.KindBase, b)))

		got, err := s.GetBaseArtifact(symbol(types.KindBase, baseFungibleWhole, ""))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	t.Run("definition update leaves hierarchy untouched", func(t *testing.T) {
		s := newFixtureStore(t)
		created, err := s.CreateTemplateDefinition(formulaLoyalty, "Points")
		require.NoError(t, err)
		id := created.Artifact.Symbol.ID

		updated := created.Clone()
		updated.Artifact.Name = "Points Renamed"
		updated.TokenBase = &types.ArtifactReference{ID: baseNonFungibleFractional, Kind: types.KindBase}
		require.NoError(t, s.UpdateArtifact(types.KindTemplateDefinition, pack(t, types.KindTemplateDefinition, updated)))

		got, err := s.GetTemplateDefinitionArtifact(symbol(types.KindTemplateDefinition, id, ""))
		require.NoError(t, err)
		assert.Equal(t, "Points Renamed", got.Artifact.Name)

		leaf, ok := s.Classification(id)
		require.True(t, ok)
		assert.Equal(t, types.LeafFungiblesWhole, leaf)
		assert.Equal(t, "Points", s.GetFullTaxonomy().Hierarchy.Leaf(leaf)[id].Definition.Artifact.Name)
	})

	t.Run("decode failure is an exception", func(t *testing.T) {
		s := newFixtureStore(t)
		err := s.UpdateArtifact(types.KindBehavior, &types.Payload{Value: []byte(`{"artifact":`)})
		assert.ErrorIs(t, err, types.ErrException)
		assert.NotErrorIs(t, err, types.ErrValidation)

		err = s.UpdateArtifact(types.KindBehavior, &types.Payload{Value: []byte(`{"artifact":{"name":7}}`)})
		assert.ErrorIs(t, err, types.ErrException)
	})

	t.Run("envelope failures are validation errors", func(t *testing.T) {
		s := newFixtureStore(t)
		assert.ErrorIs(t, s.UpdateArtifact(types.KindBehavior, nil), types.ErrValidation)
		err := s.UpdateArtifact(types.KindBehavior, &types.Payload{TypeURL: "type.example/Other", Value: []byte("{}")})
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.ErrorIs(t, s.UpdateArtifact(types.KindBehavior, &types.Payload{Value: []byte("{}")}), types.ErrValidation)
	})

	t.Run("unknown kind", func(t *testing.T) {
		s := newFixtureStore(t)
		err := s.UpdateArtifact(types.ArtifactKind("TOKEN"), &types.Payload{Value: []byte("{}")})
		assert.ErrorIs(t, err, types.ErrUnsupportedKind)
	})
}

func TestUpdateArtifactRecoversPanic(t *testing.T) {
	s := newFixtureStore(t)
	// A nil sub-store map makes the write panic.
	s.behaviors.rows = nil

	err := s.UpdateArtifact(types.KindBehavior, pack(t, types.KindBehavior, behavior("behavior-y", "Roles")))
	assert.ErrorIs(t, err, types.ErrException)
}

func TestDeleteArtifact(t *testing.T) {
	tests := []struct {
		name   string
		symbol types.ArtifactSymbol
		gone   func(s *Store) error
	}{
		{
			name:   "base",
			symbol: symbol(types.KindBase, baseFungibleWhole, ""),
			gone: func(s *Store) error {
				_, err := s.GetBaseArtifact(symbol(types.KindBase, baseFungibleWhole, ""))
				return err
			},
		},
		{
			name:   "behavior",
			symbol: symbol(types.KindBehavior, behaviorDivisible, ""),
			gone: func(s *Store) error {
				_, err := s.GetBehaviorArtifact(symbol(types.KindBehavior, behaviorDivisible, ""))
				return err
			},
		},
		{
			name:   "behavior group",
			symbol: symbol(types.KindBehaviorGroup, groupSupply, ""),
			gone: func(s *Store) error {
				_, err := s.GetBehaviorGroupArtifact(symbol(types.KindBehaviorGroup, groupSupply, ""))
				return err
			},
		},
		{
			name:   "property set",
			symbol: symbol(types.KindPropertySet, propertySetSKU, ""),
			gone: func(s *Store) error {
				_, err := s.GetPropertySetArtifact(symbol(types.KindPropertySet, propertySetSKU, ""))
				return err
			},
		},
		{
			name:   "formula by id",
			symbol: symbol(types.KindTemplateFormula, formulaLoyalty, ""),
			gone: func(s *Store) error {
				_, err := s.GetTemplateFormulaArtifact(symbol(types.KindTemplateFormula, "", formulaLoyaltyTooling))
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFixtureStore(t)
			require.NoError(t, s.DeleteArtifact(tt.symbol))
			assert.ErrorIs(t, tt.gone(s), types.ErrNotFound)
			assert.ErrorIs(t, s.DeleteArtifact(tt.symbol), types.ErrNotFound)
		})
	}
}

func TestDeleteDefinitionClearsEveryLeaf(t *testing.T) {
	s := newFixtureStore(t)
	def, err := s.CreateTemplateDefinition(formulaLoyalty, "Points")
	require.NoError(t, err)
	id := def.Artifact.Symbol.ID

	require.NoError(t, s.DeleteArtifact(symbol(types.KindTemplateDefinition, id, "")))

	_, err = s.GetTemplateDefinitionArtifact(symbol(types.KindTemplateDefinition, id, ""))
	assert.ErrorIs(t, err, types.ErrNotFound)
	tax := s.GetFullTaxonomy()
	for _, p := range types.LeafPaths {
		assert.NotContains(t, tax.Hierarchy.Leaf(p), id, "leaf %s", p)
	}
	_, ok := s.Classification(id)
	assert.False(t, ok)
}

func TestDeleteDefinitionLoadedIntoSeveralLeaves(t *testing.T) {
	tax := fixtureTaxonomy()
	tmpl := types.TokenTemplate{Definition: types.TemplateDefinition{
		Artifact: types.Artifact{Symbol: symbol(types.KindTemplateDefinition, "def-dup", "")},
	}}
	tax.TemplateDefinitions["def-dup"] = tmpl.Definition
	tax.Hierarchy.Leaf(types.LeafFungiblesWhole)["def-dup"] = tmpl
	tax.Hierarchy.Leaf(types.LeafHybridsNonFungibleSingleton)["def-dup"] = tmpl
	s := NewStore(tax)

	require.NoError(t, s.DeleteArtifact(symbol(types.KindTemplateDefinition, "def-dup", "")))
	got := s.GetFullTaxonomy()
	for _, p := range types.LeafPaths {
		assert.NotContains(t, got.Hierarchy.Leaf(p), "def-dup", "leaf %s", p)
	}
}

func TestDeleteFormulaByIDIgnoresToolingKey(t *testing.T) {
	tax := fixtureTaxonomy()
	other := formula("formula-other", "tN{s}", "Other", "")
	tax.TemplateFormulas["legacy-key"] = other
	s := NewStore(tax)

	require.NoError(t, s.DeleteArtifact(symbol(types.KindTemplateFormula, "formula-other", "")))
	got := s.GetFullTaxonomy()
	assert.NotContains(t, got.TemplateFormulas, "legacy-key")
	assert.Contains(t, got.TemplateFormulas, formulaLoyaltyTooling)
}

func TestDeleteArtifactErrors(t *testing.T) {
	s := newFixtureStore(t)
	assert.ErrorIs(t, s.DeleteArtifact(symbol(types.KindBehavior, "", "")), types.ErrValidation)
	assert.ErrorIs(t, s.DeleteArtifact(symbol(types.KindTemplateDefinition, "missing", "")), types.ErrNotFound)
	assert.ErrorIs(t, s.DeleteArtifact(symbol(types.ArtifactKind("TOKEN"), "x", "")), types.ErrUnsupportedKind)
}

func TestGettersReturnCopies(t *testing.T) {
	s := newFixtureStore(t)
	b, err := s.GetBehaviorArtifact(symbol(types.KindBehavior, behaviorDivisible, ""))
	require.NoError(t, err)
	b.Properties[0].Name = "mutated"
	b.Artifact.Name = "mutated"

	again, err := s.GetBehaviorArtifact(symbol(types.KindBehavior, behaviorDivisible, ""))
	require.NoError(t, err)
	assert.Equal(t, "DivisibleProperty", again.Properties[0].Name)
	assert.Equal(t, "Divisible", again.Artifact.Name)
}

func TestGetFormulaByTooling(t *testing.T) {
	s := newFixtureStore(t)
	f, err := s.GetTemplateFormulaArtifact(symbol(types.KindTemplateFormula, "", formulaLoyaltyTooling))
	require.NoError(t, err)
	assert.Equal(t, formulaLoyalty, f.Artifact.Symbol.ID)

	_, err = s.GetTemplateFormulaArtifact(symbol(types.KindTemplateFormula, formulaLoyalty, ""))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetFullTaxonomyIsolation(t *testing.T) {
	s := newFixtureStore(t)
	_, err := s.CreateTemplateDefinition(formulaLoyalty, "Points")
	require.NoError(t, err)

	first := s.GetFullTaxonomy()
	want := s.GetFullTaxonomy()

	delete(first.Bases, baseFungibleWhole)
	first.Behaviors[behaviorDivisible].Properties[0].Name = "mutated"
	first.TemplateFormulas[formulaLoyaltyTooling] = types.TemplateFormula{}
	for id := range first.Hierarchy.Leaf(types.LeafFungiblesWhole) {
		delete(first.Hierarchy.Leaf(types.LeafFungiblesWhole), id)
	}

	assert.Equal(t, want, s.GetFullTaxonomy())
}

func TestListArtifacts(t *testing.T) {
	s := newFixtureStore(t)

	bases, err := s.ListArtifacts(types.KindBase)
	require.NoError(t, err)
	require.Len(t, bases, 2)
	assert.Equal(t, baseFungibleWhole, bases[0].ID)
	assert.Equal(t, baseNonFungibleFractional, bases[1].ID)

	formulas, err := s.ListArtifacts(types.KindTemplateFormula)
	require.NoError(t, err)
	assert.Equal(t, []types.ArtifactSymbol{symbol(types.KindTemplateFormula, formulaLoyalty, formulaLoyaltyTooling)}, formulas)

	defs, err := s.ListArtifacts(types.KindTemplateDefinition)
	require.NoError(t, err)
	assert.Empty(t, defs)

	_, err = s.ListArtifacts(types.ArtifactKind("TOKEN"))
	assert.ErrorIs(t, err, types.ErrUnsupportedKind)
}

func TestNewStoreNilTaxonomy(t *testing.T) {
	s := NewStore(nil)
	tax := s.GetFullTaxonomy()
	require.NotNil(t, tax.Hierarchy)
	assert.Empty(t, tax.Bases)

	_, err := s.CreateTemplateDefinition("anything", "x")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
