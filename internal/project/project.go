package project

import (
	"context"
	"errors"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
	"github.com/bayleafwalker/starter-core/internal/catalog"
	"github.com/bayleafwalker/starter-core/internal/metadata"
	"github.com/bayleafwalker/starter-core/internal/resolver"
	"github.com/bayleafwalker/starter-core/internal/version"
)

// Resolver turns raw generation requests into resolved projects for one catalog.
//
// A Resolver holds no per-request state and may be shared by concurrent callers.
type Resolver struct {
	Catalog      *catalog.Catalog
	Dependencies resolver.Resolver
}

func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{Catalog: c, Dependencies: resolver.NewDefault()}
}

// Resolved is a defaulted, validated request with its dependency selection
// reconciled and its identifiers derived.
type Resolved struct {
	// Request is the defaulted request. Its Dependencies are the retained catalog
	// ids, in catalog order.
	Request         v1alpha1.ProjectRequest
	PlatformVersion version.Version
	ApplicationName string
	BaseDirectory   string

	Dependencies []catalog.Dependency
	Build        []v1alpha1.BuildDependency
	Facets       []string

	Removed   []resolver.Removal
	Unknown   []resolver.UnknownDependencyWarning
	Fallbacks []metadata.Fallback
}

// Resolve defaults, validates and resolves req. Validation failures, including a
// malformed platform version, are returned as *InvalidRequestError. Unknown and
// incompatible dependencies are dropped and reported on the result.
func (r *Resolver) Resolve(ctx context.Context, req v1alpha1.ProjectRequest) (Resolved, error) {
	start := time.Now()
	defer func() {
		projectResolutionDuration.Observe(time.Since(start).Seconds())
	}()

	if r.Catalog == nil {
		projectResolutionTotal.WithLabelValues(outcomeInvalid).Inc()
		return Resolved{}, resolver.ErrNoCatalog
	}
	deps := r.Dependencies
	if deps == nil {
		deps = resolver.NewDefault()
	}

	req = ApplyDefaults(req, r.Catalog)
	logger := log.FromContext(ctx).WithValues(
		"groupId", req.GroupID,
		"artifactId", req.ArtifactID,
		"platformVersion", req.PlatformVersion,
	)

	errs := Validate(req, r.Catalog)
	plan, err := deps.Resolve(ctx, resolver.Input{
		Catalog:         r.Catalog,
		PlatformVersion: req.PlatformVersion,
		Selected:        req.Dependencies,
	})
	var cause error
	if err != nil {
		var mve *version.MalformedVersionError
		if !errors.As(err, &mve) {
			projectResolutionTotal.WithLabelValues(outcomeInvalid).Inc()
			return Resolved{}, err
		}
		errs = append(errs, field.Invalid(field.NewPath("platformVersion"), req.PlatformVersion, mve.Reason))
		cause = err
	}
	if len(errs) > 0 {
		projectResolutionTotal.WithLabelValues(outcomeInvalid).Inc()
		logger.Info("rejecting invalid project request", "errors", errs.ToAggregate().Error())
		return Resolved{}, &InvalidRequestError{Errors: errs, Cause: cause}
	}

	sel := plan.Selection
	for _, w := range sel.Unknown {
		logger.Info("dropping unknown dependency", "dependency", w.ID)
		projectDependenciesDroppedTotal.WithLabelValues(reasonUnknown).Inc()
	}
	for _, rm := range sel.Removed {
		logger.Info("dropping incompatible dependency", "dependency", rm.ID, "range", rm.Range)
		projectDependenciesDroppedTotal.WithLabelValues(reasonIncompatible).Inc()
	}

	retained := retainedInCatalogOrder(r.Catalog, sel.Retained)
	req.Dependencies = make([]string, 0, len(retained))
	for _, d := range retained {
		req.Dependencies = append(req.Dependencies, d.ID)
	}

	derived := metadata.Derive(metadata.Input{
		GroupID:     req.GroupID,
		ArtifactID:  req.ArtifactID,
		Name:        req.Name,
		PackageName: req.PackageName,
	})
	for _, f := range derived.Fallbacks {
		logger.V(1).Info("identifier fallback", "field", f.Field, "input", f.Input, "value", f.Value)
		projectIdentifierFallbackTotal.WithLabelValues(f.Field).Inc()
	}
	req.Name = derived.Name
	req.PackageName = derived.PackageName

	build, facets := buildDependencies(r.Catalog, req, plan.PlatformVersion, retained)

	projectResolutionTotal.WithLabelValues(outcomeResolved).Inc()
	logger.V(1).Info("resolved project request", "dependencies", len(build))

	return Resolved{
		Request:         req,
		PlatformVersion: plan.PlatformVersion,
		ApplicationName: derived.ApplicationName,
		BaseDirectory:   derived.BaseDirectory,
		Dependencies:    retained,
		Build:           build,
		Facets:          facets,
		Removed:         sel.Removed,
		Unknown:         sel.Unknown,
		Fallbacks:       derived.Fallbacks,
	}, nil
}

// retainedInCatalogOrder maps retained ids (or coordinates) to catalog entries,
// collapsing aliases of the same dependency.
func retainedInCatalogOrder(c *catalog.Catalog, retained sets.Set[string]) []catalog.Dependency {
	ids := sets.New[string]()
	for id := range retained {
		if d, ok := c.Get(id); ok {
			ids.Insert(d.ID)
		}
	}
	out := make([]catalog.Dependency, 0, ids.Len())
	for _, d := range c.Dependencies() {
		if ids.Has(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

// API returns the serialized form of r.
func (r Resolved) API() v1alpha1.ResolvedProject {
	out := v1alpha1.ResolvedProject{
		Request:         r.Request,
		ApplicationName: r.ApplicationName,
		BaseDirectory:   r.BaseDirectory,
		Build:           r.Build,
		Facets:          r.Facets,
	}

	var diag v1alpha1.Diagnostics
	for _, rm := range r.Removed {
		diag.Removed = append(diag.Removed, v1alpha1.RemovedDependency{ID: rm.ID, Reason: rm.Reason()})
	}
	for _, w := range r.Unknown {
		diag.Removed = append(diag.Removed, v1alpha1.RemovedDependency{ID: w.ID, Reason: "unknown dependency"})
	}
	sort.SliceStable(diag.Removed, func(i, j int) bool {
		return diag.Removed[i].ID < diag.Removed[j].ID
	})
	for _, f := range r.Fallbacks {
		diag.Fallbacks = append(diag.Fallbacks, f.String())
	}
	if len(diag.Removed) > 0 || len(diag.Fallbacks) > 0 {
		out.Diagnostics = &diag
	}
	return out
}
