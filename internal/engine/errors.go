package engine

import (
	"errors"
	"fmt"
)

// ErrCollaborator matches every *CollaboratorError via errors.Is.
var ErrCollaborator = errors.New("collaborator failure")

// Collaborator names reported in CollaboratorError.Source.
const (
	SourceCatalog = "catalog"
	SourceSpot    = "spot"
	SourceBids    = "bids"
	SourceAsks    = "asks"
)

// CollaboratorError reports a failed call to one of the engine collaborators.
// When UpdateRates returns it, the previously published snapshot is kept.
type CollaboratorError struct {
	Source string
	Err    error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

func collaboratorErr(source string, err error) error {
	return &CollaboratorError{Source: source, Err: err}
}
