package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCatalog indicates that Resolve was called without a catalog.
	ErrNoCatalog = errors.New("resolver: no dependency catalog")
)

// UnknownDependencyWarning reports a selected id that the catalog does not know.
// It is not fatal: the id is dropped from the selection.
type UnknownDependencyWarning struct {
	ID string
}

func (w UnknownDependencyWarning) Error() string {
	return fmt.Sprintf("unknown dependency %q", w.ID)
}
