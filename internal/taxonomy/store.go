// Package taxonomy implements the artifact store: typed sub-stores over a
// Taxonomy aggregate, the definition materializer, and the classification
// hierarchy index.
//
// A Store owns the Taxonomy it was built from and mutates it in place. It
// does no locking; exactly one caller may drive it at a time.
package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Compile-time check that Store implements the public facade.
var _ types.ArtifactStore = (*Store)(nil)

// Operation names reported to the Recorder and the log.
const (
	opCreateArtifact   = "create_artifact"
	opUpdateArtifact   = "update_artifact"
	opDeleteArtifact   = "delete_artifact"
	opCreateDefinition = "create_template_definition"
	opGetFullTaxonomy  = "get_full_taxonomy"
	opGetArtifact      = "get_artifact"
	opListArtifacts    = "list_artifacts"
)

// Store is the artifact store facade over one Taxonomy.
type Store struct {
	tax *types.Taxonomy

	bases        *table[types.Base]
	behaviors    *table[types.Behavior]
	groups       *table[types.BehaviorGroup]
	propertySets *table[types.PropertySet]
	definitions  *table[types.TemplateDefinition]
	formulas     *formulaTable
	hierarchy    *hierarchyIndex

	classifier Classifier
	newID      func() string
	log        *slog.Logger
	recorder   Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClassifier replaces the default ClassifyByBaseName classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Store) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the operation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithIDGenerator overrides how materialized definitions get their ids.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// NewStore takes ownership of tax and returns a store over it. A nil tax
// starts an empty taxonomy with a full hierarchy. The caller must not touch
// tax afterwards; use GetFullTaxonomy for an independent copy.
func NewStore(tax *types.Taxonomy, opts ...Option) *Store {
	if tax == nil {
		tax = types.NewTaxonomy()
	}
	tax.Normalize()

	s := &Store{
		tax:          tax,
		bases:        newTable(types.KindBase, tax.Bases, func(v types.Base) types.Artifact { return v.Artifact }, types.Base.Clone),
		behaviors:    newTable(types.KindBehavior, tax.Behaviors, func(v types.Behavior) types.Artifact { return v.Artifact }, types.Behavior.Clone),
		groups:       newTable(types.KindBehaviorGroup, tax.BehaviorGroups, func(v types.BehaviorGroup) types.Artifact { return v.Artifact }, types.BehaviorGroup.Clone),
		propertySets: newTable(types.KindPropertySet, tax.PropertySets, func(v types.PropertySet) types.Artifact { return v.Artifact }, types.PropertySet.Clone),
		definitions:  newTable(types.KindTemplateDefinition, tax.TemplateDefinitions, func(v types.TemplateDefinition) types.Artifact { return v.Artifact }, types.TemplateDefinition.Clone),
		formulas:     newFormulaTable(tax.TemplateFormulas),
		hierarchy:    newHierarchyIndex(tax.Hierarchy),
		classifier:   ClassifyByBaseName,
		newID:        generateUUID,
		log:          slog.New(slog.NewJSONHandler(io.Discard, nil)),
		recorder:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateUUID generates a new UUID v7 for definition ids.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// observe reports an operation to the recorder and the debug log. Use it as
// defer s.observe(op, time.Now(), &err).
func (s *Store) observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	d := time.Since(start)
	s.recorder.Observe(op, err, d)
	if err != nil {
		s.log.Debug("store.operation", "operation", op, "duration", d, "error", err.Error())
		return
	}
	s.log.Debug("store.operation", "operation", op, "duration", d)
}

// decodeArtifact unwraps payload as T for kind and returns it with its
// storage key: the symbol id, or the tooling for formulas.
func decodeArtifact[T any](kind types.ArtifactKind, payload *types.Payload, artifact func(T) types.Artifact) (T, string, error) {
	var v T
	if err := payload.Unpack(kind, &v); err != nil {
		return v, "", err
	}
	sym := artifact(v).Symbol
	key := sym.ID
	field := "symbol.id"
	if kind == types.KindTemplateFormula {
		key, field = sym.Tooling, "symbol.tooling"
	}
	if key == "" {
		return v, "", fmt.Errorf("%w: %s payload has no %s", types.ErrValidation, kind, field)
	}
	return v, key, nil
}

// CreateArtifact implements types.ArtifactStore.
func (s *Store) CreateArtifact(kind types.ArtifactKind, payload *types.Payload) (err error) {
	defer s.observe(opCreateArtifact, time.Now(), &err)

	if payload == nil || len(payload.Value) == 0 {
		return fmt.Errorf("create %s: %w: payload is empty", kind, types.ErrValidation)
	}

	switch kind {
	case types.KindTemplateDefinition:
		def, id, err := decodeArtifact(kind, payload, s.definitions.artifact)
		if err != nil {
			return fmt.Errorf("create %s: %w", kind, err)
		}
		s.definitions.set(id, def)
		var formula *types.TemplateFormula
		if _, f, ok := s.formulas.byID(def.FormulaReference.ID); ok {
			formula = &f
		}
		baseID := ""
		if def.TokenBase != nil {
			baseID = def.TokenBase.ID
		}
		s.classify(def, formula, baseID)
	case types.KindTemplateFormula:
		f, _, err := decodeArtifact(kind, payload, formulaArtifact)
		if err != nil {
			return fmt.Errorf("create %s: %w", kind, err)
		}
		s.formulas.set(f)
	case types.KindBehavior:
		err = putArtifact(s.behaviors, payload)
	case types.KindBehaviorGroup:
		err = putArtifact(s.groups, payload)
	case types.KindPropertySet:
		err = putArtifact(s.propertySets, payload)
	case types.KindBase:
		return fmt.Errorf("create %s: %w: bases are not creatable", kind, types.ErrUnsupportedKind)
	default:
		return fmt.Errorf("create %q: %w", kind, types.ErrUnsupportedKind)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

// putArtifact decodes payload into t's type and stores it under its id.
func putArtifact[T any](t *table[T], payload *types.Payload) error {
	v, id, err := decodeArtifact(t.kind, payload, t.artifact)
	if err != nil {
		return err
	}
	t.set(id, v)
	return nil
}

func formulaArtifact(v types.TemplateFormula) types.Artifact { return v.Artifact }

// UpdateArtifact implements types.ArtifactStore. Decode failures and panics
// raised while processing the payload are reported as ErrException.
func (s *Store) UpdateArtifact(kind types.ArtifactKind, payload *types.Payload) (err error) {
	defer s.observe(opUpdateArtifact, time.Now(), &err)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update %s: %w: %v", kind, types.ErrException, r)
		}
	}()

	if payload == nil || len(payload.Value) == 0 {
		return fmt.Errorf("update %s: %w: payload is empty", kind, types.ErrValidation)
	}

	switch kind {
	case types.KindTemplateDefinition:
		err = putArtifact(s.definitions, payload)
	case types.KindTemplateFormula:
		var f types.TemplateFormula
		if f, _, err = decodeArtifact(kind, payload, formulaArtifact); err == nil {
			s.formulas.set(f)
		}
	case types.KindBehavior:
		err = putArtifact(s.behaviors, payload)
	case types.KindBehaviorGroup:
		err = putArtifact(s.groups, payload)
	case types.KindPropertySet:
		err = putArtifact(s.propertySets, payload)
	case types.KindBase:
		err = putArtifact(s.bases, payload)
	default:
		return fmt.Errorf("update %q: %w", kind, types.ErrUnsupportedKind)
	}
	if err != nil {
		if isDecodeError(err) {
			return fmt.Errorf("update %s: %w: %v", kind, types.ErrException, err)
		}
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return nil
}

// isDecodeError reports whether err came from the JSON decoder rather than
// from envelope validation.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// DeleteArtifact implements types.ArtifactStore.
func (s *Store) DeleteArtifact(symbol types.ArtifactSymbol) (err error) {
	defer s.observe(opDeleteArtifact, time.Now(), &err)

	id := symbol.ID
	if id == "" && symbol.Kind.Valid() {
		return fmt.Errorf("delete %s: %w: symbol has no id", symbol.Kind, types.ErrValidation)
	}

	var removed bool
	switch symbol.Kind {
	case types.KindBase:
		removed = s.bases.remove(id)
	case types.KindBehavior:
		removed = s.behaviors.remove(id)
	case types.KindBehaviorGroup:
		removed = s.groups.remove(id)
	case types.KindPropertySet:
		removed = s.propertySets.remove(id)
	case types.KindTemplateDefinition:
		removed = s.definitions.remove(id)
		if s.hierarchy.removeAll(id) > 0 {
			removed = true
		}
	case types.KindTemplateFormula:
		removed = s.formulas.deleteByID(id)
	default:
		return fmt.Errorf("delete %q: %w", symbol.Kind, types.ErrUnsupportedKind)
	}
	if !removed {
		return fmt.Errorf("delete %s %s: %w", symbol.Kind, id, types.ErrNotFound)
	}
	return nil
}

// GetFullTaxonomy implements types.ArtifactStore.
func (s *Store) GetFullTaxonomy() *types.Taxonomy {
	start := time.Now()
	defer s.observe(opGetFullTaxonomy, start, nil)
	return s.tax.Clone()
}

// GetTemplateDefinitionArtifact implements types.ArtifactStore.
func (s *Store) GetTemplateDefinitionArtifact(symbol types.ArtifactSymbol) (types.TemplateDefinition, error) {
	return getArtifact(s, s.definitions, symbol.ID)
}

// GetTemplateFormulaArtifact implements types.ArtifactStore. Formulas are
// looked up by tooling.
func (s *Store) GetTemplateFormulaArtifact(symbol types.ArtifactSymbol) (f types.TemplateFormula, err error) {
	defer s.observe(opGetArtifact, time.Now(), &err)
	found, ok := s.formulas.byTooling(symbol.Tooling)
	if !ok {
		return types.TemplateFormula{}, fmt.Errorf("formula %q: %w", symbol.Tooling, types.ErrNotFound)
	}
	return found.Clone(), nil
}

// GetBehaviorArtifact implements types.ArtifactStore.
func (s *Store) GetBehaviorArtifact(symbol types.ArtifactSymbol) (types.Behavior, error) {
	return getArtifact(s, s.behaviors, symbol.ID)
}

// GetBehaviorGroupArtifact implements types.ArtifactStore.
func (s *Store) GetBehaviorGroupArtifact(symbol types.ArtifactSymbol) (types.BehaviorGroup, error) {
	return getArtifact(s, s.groups, symbol.ID)
}

// GetPropertySetArtifact implements types.ArtifactStore.
func (s *Store) GetPropertySetArtifact(symbol types.ArtifactSymbol) (types.PropertySet, error) {
	return getArtifact(s, s.propertySets, symbol.ID)
}

// GetBaseArtifact implements types.ArtifactStore.
func (s *Store) GetBaseArtifact(symbol types.ArtifactSymbol) (types.Base, error) {
	return getArtifact(s, s.bases, symbol.ID)
}

func getArtifact[T any](s *Store, t *table[T], id string) (v T, err error) {
	defer s.observe(opGetArtifact, time.Now(), &err)
	v, ok := t.get(id)
	if !ok {
		return v, fmt.Errorf("%s %q: %w", t.kind, id, types.ErrNotFound)
	}
	return v, nil
}

// ListArtifacts implements types.ArtifactStore.
func (s *Store) ListArtifacts(kind types.ArtifactKind) (syms []types.ArtifactSymbol, err error) {
	defer s.observe(opListArtifacts, time.Now(), &err)
	switch kind {
	case types.KindBase:
		return s.bases.symbols(), nil
	case types.KindBehavior:
		return s.behaviors.symbols(), nil
	case types.KindBehaviorGroup:
		return s.groups.symbols(), nil
	case types.KindPropertySet:
		return s.propertySets.symbols(), nil
	case types.KindTemplateFormula:
		return s.formulas.symbols(), nil
	case types.KindTemplateDefinition:
		return s.definitions.symbols(), nil
	}
	return nil, fmt.Errorf("list %q: %w", kind, types.ErrUnsupportedKind)
}

// Classification implements types.ArtifactStore.
func (s *Store) Classification(definitionID string) (types.LeafPath, bool) {
	return s.hierarchy.locate(definitionID)
}

// classify files def into the hierarchy. Every failure here is a skip: the
// hierarchy is a derived index and the definitions sub-store stays
// authoritative.
func (s *Store) classify(def types.TemplateDefinition, formula *types.TemplateFormula, baseID string) {
	id := def.Artifact.Symbol.ID
	if s.tax.Hierarchy == nil {
		s.log.Debug("hierarchy.skip", "definition", id, "reason", "no hierarchy root")
		return
	}
	_, base, ok := s.bases.find(baseID)
	if !ok {
		s.log.Debug("hierarchy.skip", "definition", id, "reason", "base not found", "base", baseID)
		return
	}
	path, ok := s.classifier(base, formula)
	if !ok {
		s.log.Debug("hierarchy.skip", "definition", id, "reason", "unclassified", "base", baseID)
		return
	}
	tmpl := types.TokenTemplate{Definition: def.Clone()}
	if formula != nil {
		f := formula.Clone()
		tmpl.Formula = &f
	}
	if !s.hierarchy.insert(path, id, tmpl) {
		s.log.Debug("hierarchy.skip", "definition", id, "reason", "leaf absent", "leaf", string(path))
		return
	}
	s.log.Debug("hierarchy.insert", "definition", id, "leaf", string(path))
}
