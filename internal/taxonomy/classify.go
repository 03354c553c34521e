package taxonomy

import (
	"strings"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Classifier picks the hierarchy leaf for a definition built on base from
// formula (nil when the formula could not be resolved). Returning false
// leaves the definition unclassified.
type Classifier func(base types.Base, formula *types.TemplateFormula) (types.LeafPath, bool)

// ClassifyByBaseName is the default Classifier. It reads the lower-cased
// base name: "non-fungible" selects the non-fungible branch, anything else
// the fungible one; "fractional" selects the fractional leaf, anything else
// the whole leaf. It never selects a singleton or hybrid leaf.
func ClassifyByBaseName(base types.Base, _ *types.TemplateFormula) (types.LeafPath, bool) {
	name := strings.ToLower(base.Artifact.Name)
	fractional := strings.Contains(name, "fractional")
	if strings.Contains(name, "non-fungible") {
		if fractional {
			return types.LeafNonFungiblesFractional, true
		}
		return types.LeafNonFungiblesWhole, true
	}
	if fractional {
		return types.LeafFungiblesFractional, true
	}
	return types.LeafFungiblesWhole, true
}
