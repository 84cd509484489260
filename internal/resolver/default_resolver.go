package resolver

import (
	"context"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/bayleafwalker/starter-core/internal/catalog"
	"github.com/bayleafwalker/starter-core/internal/version"
)

// DefaultResolver is the default implementation wired into the request pipeline.
type DefaultResolver struct{}

func NewDefault() *DefaultResolver {
	return &DefaultResolver{}
}

// Resolve parses the platform version and reconciles the selection against it.
// An unparsable version fails with a *version.MalformedVersionError.
func (r *DefaultResolver) Resolve(ctx context.Context, in Input) (Plan, error) {
	_ = ctx

	if in.Catalog == nil {
		return Plan{}, ErrNoCatalog
	}
	v, err := version.Parse(in.PlatformVersion)
	if err != nil {
		return Plan{}, err
	}

	selected := sets.New[string]()
	for _, id := range in.Selected {
		if id = strings.TrimSpace(id); id != "" {
			selected.Insert(id)
		}
	}

	return Plan{
		PlatformVersion: v,
		Selection:       ReconcileSelection(selected, in.Catalog, v),
	}, nil
}

// IsCompatible reports whether d can be used with v: d has no compatibility range,
// or v lies within it.
func IsCompatible(d catalog.Dependency, v version.Version) bool {
	if d.Range == nil {
		return true
	}
	return d.Range.Contains(v)
}

// FilterSelectable returns the ids of every catalog dependency compatible with v.
func FilterSelectable(c *catalog.Catalog, v version.Version) sets.Set[string] {
	out := sets.New[string]()
	for _, d := range c.Dependencies() {
		if IsCompatible(d, v) {
			out.Insert(d.ID)
		}
	}
	return out
}

// ReconcileSelection removes from selected every id that is unknown to the catalog
// or incompatible with v. It never adds ids and does not modify selected.
//
// Ids may also be given as "groupId:artifactId" coordinates; they are kept as spelled.
func ReconcileSelection(selected sets.Set[string], c *catalog.Catalog, v version.Version) Selection {
	out := Selection{Retained: sets.New[string]()}

	for _, id := range sets.List(selected) {
		d, ok := c.Get(id)
		if !ok {
			out.Unknown = append(out.Unknown, UnknownDependencyWarning{ID: id})
			continue
		}
		if !IsCompatible(d, v) {
			out.Removed = append(out.Removed, Removal{
				ID:              id,
				Range:           d.Range.String(),
				PlatformVersion: v.String(),
			})
			continue
		}
		out.Retained.Insert(id)
	}
	return out
}

// Search returns the catalog dependencies matching term, split by compatibility
// with v. Every whitespace-separated word of term must match the id, name,
// coordinates or a keyword, case-insensitively. An empty term matches everything.
func Search(c *catalog.Catalog, v version.Version, term string) SearchResult {
	words := strings.Fields(strings.ToLower(term))
	selectable := FilterSelectable(c, v)

	var out SearchResult
	for _, d := range c.Dependencies() {
		if !matches(d, words) {
			continue
		}
		if selectable.Has(d.ID) {
			out.Selectable = append(out.Selectable, d)
		} else {
			out.Invalid = append(out.Invalid, d)
		}
	}
	return out
}

func matches(d catalog.Dependency, words []string) bool {
	haystack := make([]string, 0, 3+len(d.Keywords))
	haystack = append(haystack, strings.ToLower(d.ID), strings.ToLower(d.Name), strings.ToLower(d.Coordinates()))
	for _, k := range d.Keywords {
		haystack = append(haystack, strings.ToLower(k))
	}

	for _, w := range words {
		found := false
		for _, h := range haystack {
			if strings.Contains(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RemovedIDs returns the ids of s.Removed.
func (s Selection) RemovedIDs() []string {
	ids := make([]string, 0, len(s.Removed))
	for _, r := range s.Removed {
		ids = append(ids, r.ID)
	}
	return ids
}
