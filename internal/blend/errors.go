package blend

import "errors"

var (
	// ErrNoActiveInfluence marks an edit attempted with an empty influence
	// selection.
	ErrNoActiveInfluence = errors.New("blend: no active influence selected")
	// ErrNoSelection marks an edit attempted with no source rows or no
	// soft-selected vertices to act on.
	ErrNoSelection = errors.New("blend: nothing selected")
)
