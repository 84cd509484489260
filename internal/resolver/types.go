package resolver

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/bayleafwalker/starter-core/internal/catalog"
	"github.com/bayleafwalker/starter-core/internal/version"
)

// Input is the request view the resolver operates on.
type Input struct {
	Catalog *catalog.Catalog
	// PlatformVersion is the raw version selected by the user.
	PlatformVersion string
	// Selected are dependency ids, or "groupId:artifactId" coordinates.
	Selected []string
}

// Plan is the output of the resolver.
type Plan struct {
	PlatformVersion version.Version
	Selection       Selection
}

// Selection is the outcome of reconciling selected ids against a platform version.
type Selection struct {
	// Retained holds the input ids that are known and compatible, spelled as given.
	Retained sets.Set[string]
	// Removed lists known ids dropped for incompatibility, sorted by id.
	Removed []Removal
	// Unknown lists ids missing from the catalog, sorted by id.
	Unknown []UnknownDependencyWarning
}

// Removal records a known dependency dropped because its compatibility range does
// not contain the platform version.
type Removal struct {
	ID              string
	Range           string
	PlatformVersion string
}

func (r Removal) Reason() string {
	return "requires platform version " + r.Range + ", selected " + r.PlatformVersion
}

// SearchResult splits the dependencies matching a search term by compatibility.
// Both lists keep catalog order.
type SearchResult struct {
	Selectable []catalog.Dependency
	Invalid    []catalog.Dependency
}
