package models

import "github.com/pkg/errors"

// Domain error kinds. Callers match them with errors.Is; repositories wrap
// transport failures around ErrRepositoryUnavailable so the kind survives
// wrapping.
var (
	ErrEmptyTitle            = errors.New("decision title is empty")
	ErrEmptyFinalDecision    = errors.New("final decision summary is empty")
	ErrInvalidChoice         = errors.New("invalid vote choice")
	ErrDecisionNotVotable    = errors.New("decision is not open for voting")
	ErrInvalidTransition     = errors.New("invalid decision status transition")
	ErrUnauthorized          = errors.New("user is not allowed to perform this action")
	ErrNotFound              = errors.New("not found")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
