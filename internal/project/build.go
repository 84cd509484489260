package project

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
	"github.com/bayleafwalker/starter-core/internal/catalog"
	"github.com/bayleafwalker/starter-core/internal/resolver"
	"github.com/bayleafwalker/starter-core/internal/version"
)

// buildDependencies computes the dependencies of the generated build and the
// project facets.
//
// Order: root starter (only when nothing else is a starter), selected catalog
// dependencies, dependencies implied by the packaging, language runtime
// libraries, test starter.
func buildDependencies(c *catalog.Catalog, req v1alpha1.ProjectRequest, v version.Version, selected []catalog.Dependency) ([]v1alpha1.BuildDependency, []string) {
	type entry struct {
		dep   catalog.Dependency
		scope v1alpha1.DependencyScope
	}

	entries := make([]entry, 0, len(selected)+2)
	index := make(map[string]int, len(selected))
	for _, d := range selected {
		index[d.ID] = len(entries)
		entries = append(entries, entry{dep: d, scope: d.Scope})
	}
	// The packaging decides the scope of its dependencies even when they were
	// selected explicitly, e.g. tomcat is always provided for a war.
	for _, pd := range c.PackagingDependencies(req.Packaging) {
		d, ok := c.Get(pd.ID)
		if !ok {
			continue
		}
		if i, dup := index[d.ID]; dup {
			if pd.Scope != "" {
				entries[i].scope = pd.Scope
			}
			continue
		}
		if !resolver.IsCompatible(d, v) {
			continue
		}
		scope := d.Scope
		if pd.Scope != "" {
			scope = pd.Scope
		}
		index[d.ID] = len(entries)
		entries = append(entries, entry{dep: d, scope: scope})
	}

	hasStarter := false
	facets := sets.New[string]()
	for _, e := range entries {
		hasStarter = hasStarter || e.dep.Starter
		facets.Insert(e.dep.Facets...)
	}

	out := make([]v1alpha1.BuildDependency, 0, len(entries)+4)
	if !hasStarter {
		out = append(out, fromCoordinates(c.RootStarter(), v1alpha1.DependencyScopeCompile))
	}
	for _, e := range entries {
		out = append(out, v1alpha1.BuildDependency{
			ID:         e.dep.ID,
			GroupID:    e.dep.GroupID,
			ArtifactID: e.dep.ArtifactID,
			Scope:      e.scope,
		})
	}
	for _, coords := range c.LanguageDependencies(req.Language) {
		out = append(out, fromCoordinates(coords, v1alpha1.DependencyScopeCompile))
	}
	if test := c.TestStarter(); test.ArtifactID != "" {
		out = append(out, fromCoordinates(test, v1alpha1.DependencyScopeTest))
	}

	if facets.Len() == 0 {
		return out, nil
	}
	return out, sets.List(facets)
}

func fromCoordinates(c v1alpha1.Coordinates, defaultScope v1alpha1.DependencyScope) v1alpha1.BuildDependency {
	scope := c.Scope
	if scope == "" {
		scope = defaultScope
	}
	return v1alpha1.BuildDependency{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Scope:      scope,
	}
}
