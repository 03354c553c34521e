package types

import "errors"

// Store operation errors. Every ArtifactStore operation reports failures
// by wrapping exactly one of these; callers test with errors.Is.
var (
	ErrNotFound        = errors.New("artifact not found")
	ErrUnsupportedKind = errors.New("artifact kind not supported")
	ErrValidation      = errors.New("artifact validation failed")
	ErrException       = errors.New("artifact processing failed")
)
