package taxonomy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

const (
	baseFungibleWhole         = "base-fungible-whole"
	baseNonFungibleFractional = "base-nonfungible-fractional"
	behaviorDivisible         = "behavior-divisible"
	behaviorTransferable      = "behavior-transferable"
	groupSupply               = "group-supply"
	propertySetSKU            = "propertyset-sku"
	formulaLoyalty            = "formula-loyalty"
	formulaLoyaltyTooling     = "tF{d,t}"
)

func symbol(kind types.ArtifactKind, id, tooling string) types.ArtifactSymbol {
	return types.ArtifactSymbol{ID: id, Tooling: tooling, Kind: kind}
}

func base(id, name string) types.Base {
	return types.Base{Artifact: types.Artifact{Name: name, Symbol: symbol(types.KindBase, id, "t")}}
}

func behavior(id, name string) types.Behavior {
	return types.Behavior{
		Artifact: types.Artifact{Name: name, Symbol: symbol(types.KindBehavior, id, name[:1])},
		Properties: []types.Property{
			{Name: name + "Property", ValueDescription: "value", TemplateValue: "1"},
		},
		Invocations: []types.Invocation{
			{ID: id + "-invoke", Name: name, Request: &types.InvocationMessage{ControlMessageName: name + "Request"}},
		},
	}
}

func formula(id, tooling, name, baseID string) types.TemplateFormula {
	f := types.TemplateFormula{
		Artifact: types.Artifact{
			Name:   name,
			Symbol: symbol(types.KindTemplateFormula, id, tooling),
			Files: []types.ArtifactFile{
				{FileName: name + ".md", Content: "# " + name},
				{FileName: name + "-" + name + ".json"},
			},
		},
		TemplateType: types.TemplateFungible,
	}
	if baseID != "" {
		f.TokenBase = &types.ArtifactReference{ID: baseID, Kind: types.KindBase}
	}
	return f
}

// fixtureTaxonomy returns a taxonomy holding one of every kind but
// definitions: two bases, two behaviors, a group, a property set, and a
// fungible formula built from all of them.
func fixtureTaxonomy() *types.Taxonomy {
	tax := types.NewTaxonomy()
	tax.Bases[baseFungibleWhole] = base(baseFungibleWhole, "Fungible Whole Token")
	tax.Bases[baseNonFungibleFractional] = base(baseNonFungibleFractional, "Non-Fungible Fractional Token")
	tax.Behaviors[behaviorDivisible] = behavior(behaviorDivisible, "Divisible")
	tax.Behaviors[behaviorTransferable] = behavior(behaviorTransferable, "Transferable")
	tax.BehaviorGroups[groupSupply] = types.BehaviorGroup{
		Artifact:  types.Artifact{Name: "Supply Control", Symbol: symbol(types.KindBehaviorGroup, groupSupply, "SC")},
		Behaviors: []types.ArtifactReference{{ID: behaviorDivisible, Kind: types.KindBehavior}},
	}
	tax.PropertySets[propertySetSKU] = types.PropertySet{
		Artifact:   types.Artifact{Name: "SKU", Symbol: symbol(types.KindPropertySet, propertySetSKU, "phSKU")},
		Properties: []types.Property{{Name: "SKU", ValueDescription: "stock keeping unit"}},
	}

	f := formula(formulaLoyalty, formulaLoyaltyTooling, "Loyalty", baseFungibleWhole)
	f.Behaviors = []types.ArtifactReference{
		{ID: behaviorDivisible, Kind: types.KindBehavior, Notes: "d"},
		{ID: behaviorTransferable, Kind: types.KindBehavior},
	}
	f.BehaviorGroups = []types.ArtifactReference{{ID: groupSupply, Kind: types.KindBehaviorGroup}}
	f.PropertySets = []types.ArtifactReference{{ID: propertySetSKU, Kind: types.KindPropertySet}}
	tax.TemplateFormulas[formulaLoyaltyTooling] = f
	return tax
}

// sequentialIDs returns an id generator yielding def-1, def-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("def-%d", n)
	}
}

// newFixtureStore builds a Store over fixtureTaxonomy with deterministic
// definition ids.
func newFixtureStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return NewStore(fixtureTaxonomy(), opts...)
}

func pack(t *testing.T, kind types.ArtifactKind, v any) *types.Payload {
	t.Helper()
	p, err := types.PackPayload(kind, v)
	require.NoError(t, err)
	return p
}
