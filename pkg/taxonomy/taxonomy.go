// Package taxonomy provides the public API for the token taxonomy artifact
// store. It exposes the store factory and its options while keeping the
// implementation internal.
package taxonomy

import (
	"github.com/InterWorkAlliance/visual-token-designer/internal/taxonomy"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Option configures a store created by NewStore.
type Option = taxonomy.Option

// Classifier picks the hierarchy leaf for a definition.
type Classifier = taxonomy.Classifier

// Recorder observes store operations.
type Recorder = taxonomy.Recorder

// Store options.
var (
	WithClassifier  = taxonomy.WithClassifier
	WithLogger      = taxonomy.WithLogger
	WithRecorder    = taxonomy.WithRecorder
	WithIDGenerator = taxonomy.WithIDGenerator
)

// ClassifyByBaseName is the default classifier.
var ClassifyByBaseName Classifier = taxonomy.ClassifyByBaseName

// NewPrometheusRecorder registers the store's operation metrics with reg.
var NewPrometheusRecorder = taxonomy.NewPrometheusRecorder

// NewStore creates an artifact store that owns tax. A nil tax starts empty.
//
// Example:
//
//	tax, err := snap.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	store := taxonomy.NewStore(tax, taxonomy.WithLogger(logger.L()))
//	def, err := store.CreateTemplateDefinition(formulaID, "Loyalty Points")
func NewStore(tax *types.Taxonomy, opts ...Option) types.ArtifactStore {
	return taxonomy.NewStore(tax, opts...)
}
