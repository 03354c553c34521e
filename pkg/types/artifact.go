package types

// ArtifactKind identifies which sub-store an artifact belongs to.
type ArtifactKind string

// Artifact kinds. The set is closed; every switch over ArtifactKind in this
// module handles each constant explicitly.
const (
	KindBase               ArtifactKind = "BASE"
	KindBehavior           ArtifactKind = "BEHAVIOR"
	KindBehaviorGroup      ArtifactKind = "BEHAVIOR_GROUP"
	KindPropertySet        ArtifactKind = "PROPERTY_SET"
	KindTemplateFormula    ArtifactKind = "TEMPLATE_FORMULA"
	KindTemplateDefinition ArtifactKind = "TEMPLATE_DEFINITION"
)

// ArtifactKinds lists all kinds in sub-store order, for enumeration.
var ArtifactKinds = []ArtifactKind{
	KindBase,
	KindBehavior,
	KindBehaviorGroup,
	KindPropertySet,
	KindTemplateFormula,
	KindTemplateDefinition,
}

// Valid reports whether k is one of the known kinds.
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindBase, KindBehavior, KindBehaviorGroup, KindPropertySet,
		KindTemplateFormula, KindTemplateDefinition:
		return true
	}
	return false
}

// ParseArtifactKind accepts the canonical upper-case name or the
// lower-case, dash- or underscore-separated form used on the command line
// ("behavior-group", "template_formula").
func ParseArtifactKind(s string) (ArtifactKind, error) {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c == '-':
			b[i] = '_'
		}
	}
	k := ArtifactKind(b)
	if !k.Valid() {
		return "", ErrUnsupportedKind
	}
	return k, nil
}

// ArtifactSymbol is the identity of an artifact. ID is the durable identity
// for most kinds; Tooling is the human-assigned short code that keys
// formulas.
type ArtifactSymbol struct {
	ID      string       `json:"id"`
	Tooling string       `json:"tooling,omitempty"`
	Kind    ArtifactKind `json:"kind"`
}

// ArtifactFile is one entry of an artifact's file manifest.
type ArtifactFile struct {
	FileName string `json:"file_name"`
	Content  string `json:"content,omitempty"`
}

// Artifact is the envelope embedded in every stored entity.
type Artifact struct {
	Name   string         `json:"name"`
	Symbol ArtifactSymbol `json:"symbol"`
	Files  []ArtifactFile `json:"files,omitempty"`
}

// Clone returns a deep copy of the artifact.
func (a Artifact) Clone() Artifact {
	a.Files = cloneSlice(a.Files)
	return a
}

// ArtifactReference is a non-owning pointer to another artifact. Holding a
// reference says nothing about the referenced artifact's lifetime.
type ArtifactReference struct {
	ID    string       `json:"id"`
	Kind  ArtifactKind `json:"kind"`
	Notes string       `json:"notes,omitempty"`
}

// cloneSlice copies a slice of plain values, preserving nil.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// cloneRef copies an optional reference.
func cloneRef(r *ArtifactReference) *ArtifactReference {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
