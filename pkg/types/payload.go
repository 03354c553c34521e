package types

import (
	"encoding/json"
	"fmt"
)

// typeURLPrefix namespaces payload type names.
const typeURLPrefix = "type.tokendesigner.dev/taxonomy.model.core."

// Payload is the type-erased envelope accepted by CreateArtifact and
// UpdateArtifact. Value holds the JSON encoding of the artifact named by
// TypeURL.
type Payload struct {
	TypeURL string          `json:"type_url,omitempty"`
	Value   json.RawMessage `json:"value"`
}

// TypeURL returns the payload type name for an artifact kind.
func TypeURL(kind ArtifactKind) string {
	switch kind {
	case KindBase:
		return typeURLPrefix + "Base"
	case KindBehavior:
		return typeURLPrefix + "Behavior"
	case KindBehaviorGroup:
		return typeURLPrefix + "BehaviorGroup"
	case KindPropertySet:
		return typeURLPrefix + "PropertySet"
	case KindTemplateFormula:
		return typeURLPrefix + "TemplateFormula"
	case KindTemplateDefinition:
		return typeURLPrefix + "TemplateDefinition"
	}
	return ""
}

// PackPayload encodes v as a payload for kind.
func PackPayload(kind ArtifactKind, v any) (*Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("packing %s payload: %w", kind, err)
	}
	return &Payload{TypeURL: TypeURL(kind), Value: data}, nil
}

// Unpack decodes the payload into the artifact type for kind. A payload
// without a TypeURL is accepted for any kind; one that names a different
// type is rejected with ErrValidation, as is an empty or undecodable value.
func (p *Payload) Unpack(kind ArtifactKind, into any) error {
	if p == nil || len(p.Value) == 0 {
		return fmt.Errorf("%w: payload is empty", ErrValidation)
	}
	if p.TypeURL != "" && p.TypeURL != TypeURL(kind) {
		return fmt.Errorf("%w: payload type %q does not match kind %s", ErrValidation, p.TypeURL, kind)
	}
	if err := json.Unmarshal(p.Value, into); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrValidation, kind, err)
	}
	return nil
}
