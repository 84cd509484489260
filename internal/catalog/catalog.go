package catalog

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
	"github.com/bayleafwalker/starter-core/internal/version"
)

// Dependency is the parsed, immutable view of a catalog entry.
type Dependency struct {
	ID          string
	Name        string
	Description string
	GroupID     string
	ArtifactID  string
	Scope       v1alpha1.DependencyScope
	Starter     bool
	// Range is nil when the dependency is compatible with every platform version.
	Range    *version.Range
	Facets   []string
	Keywords []string
}

// Coordinates returns the "groupId:artifactId" form of d.
func (d Dependency) Coordinates() string {
	return v1alpha1.Coordinates{GroupID: d.GroupID, ArtifactID: d.ArtifactID}.Key()
}

// Catalog is the read-only registry of selectable dependencies together with the
// enumerations and defaults of the generator form.
//
// A Catalog is built once at startup and never mutated afterwards, so it can be
// shared by concurrent resolutions without locking. Slices returned by its
// accessors must not be modified.
type Catalog struct {
	dependencies  []Dependency
	byID          map[string]int
	byCoordinates map[string]int

	platformVersions []version.Version
	defaultVersion   version.Version

	languages    sets.Set[string]
	packagings   sets.Set[string]
	javaVersions sets.Set[string]
	types        sets.Set[string]

	defaults              v1alpha1.Defaults
	rootStarter           v1alpha1.Coordinates
	testStarter           v1alpha1.Coordinates
	languageDependencies  map[v1alpha1.Language][]v1alpha1.Coordinates
	packagingDependencies map[v1alpha1.Packaging][]v1alpha1.PackagingDependency
}

// New validates spec and builds a Catalog from it.
func New(spec v1alpha1.CatalogSpec) (*Catalog, error) {
	root := field.NewPath("spec")
	var errs field.ErrorList

	c := &Catalog{
		byID:                  make(map[string]int, len(spec.Dependencies)),
		byCoordinates:         make(map[string]int, len(spec.Dependencies)),
		languages:             sets.New[string](),
		packagings:            sets.New[string](),
		javaVersions:          sets.New(spec.JavaVersions...),
		types:                 sets.New[string](),
		defaults:              spec.Defaults,
		rootStarter:           spec.RootStarter,
		testStarter:           spec.TestStarter,
		languageDependencies:  make(map[v1alpha1.Language][]v1alpha1.Coordinates, len(spec.LanguageDependencies)),
		packagingDependencies: make(map[v1alpha1.Packaging][]v1alpha1.PackagingDependency, len(spec.PackagingDependencies)),
	}
	for _, l := range spec.Languages {
		c.languages.Insert(string(l))
	}
	for _, p := range spec.Packagings {
		c.packagings.Insert(string(p))
	}
	for _, t := range spec.Types {
		c.types.Insert(string(t))
	}

	for i, raw := range spec.PlatformVersions {
		v, err := version.Parse(raw)
		if err != nil {
			errs = append(errs, field.Invalid(root.Child("platformVersions").Index(i), raw, err.Error()))
			continue
		}
		c.platformVersions = append(c.platformVersions, v)
	}

	depsPath := root.Child("dependencies")
	for i, in := range spec.Dependencies {
		p := depsPath.Index(i)
		dep, depErrs := parseDependency(p, in)
		errs = append(errs, depErrs...)
		if len(depErrs) > 0 {
			continue
		}
		if _, dup := c.byID[dep.ID]; dup {
			errs = append(errs, field.Duplicate(p.Child("id"), dep.ID))
			continue
		}
		c.byID[dep.ID] = len(c.dependencies)
		if _, dup := c.byCoordinates[dep.Coordinates()]; !dup {
			c.byCoordinates[dep.Coordinates()] = len(c.dependencies)
		}
		c.dependencies = append(c.dependencies, dep)
	}

	for lang, coords := range spec.LanguageDependencies {
		c.languageDependencies[lang] = append([]v1alpha1.Coordinates(nil), coords...)
	}
	for packaging, deps := range spec.PackagingDependencies {
		p := root.Child("packagingDependencies").Key(string(packaging))
		for i, d := range deps {
			if _, ok := c.byID[d.ID]; !ok {
				errs = append(errs, field.NotFound(p.Index(i).Child("id"), d.ID))
			}
		}
		c.packagingDependencies[packaging] = append([]v1alpha1.PackagingDependency(nil), deps...)
	}

	if strings.TrimSpace(spec.RootStarter.ArtifactID) == "" {
		errs = append(errs, field.Required(root.Child("rootStarter", "artifactId"), ""))
	}

	errs = append(errs, c.validateDefaults(root.Child("defaults"))...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog: %w", errs.ToAggregate())
	}
	return c, nil
}

func parseDependency(p *field.Path, in v1alpha1.Dependency) (Dependency, field.ErrorList) {
	var errs field.ErrorList
	id := strings.TrimSpace(in.ID)
	if id == "" {
		errs = append(errs, field.Required(p.Child("id"), ""))
	}
	if strings.TrimSpace(in.GroupID) == "" {
		errs = append(errs, field.Required(p.Child("groupId"), ""))
	}
	if strings.TrimSpace(in.ArtifactID) == "" {
		errs = append(errs, field.Required(p.Child("artifactId"), ""))
	}

	dep := Dependency{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		GroupID:     strings.TrimSpace(in.GroupID),
		ArtifactID:  strings.TrimSpace(in.ArtifactID),
		Scope:       in.Scope,
		Starter:     true,
		Facets:      append([]string(nil), in.Facets...),
		Keywords:    append([]string(nil), in.Keywords...),
	}
	if dep.Scope == "" {
		dep.Scope = v1alpha1.DependencyScopeCompile
	}
	if in.Starter != nil {
		dep.Starter = *in.Starter
	}
	if strings.TrimSpace(in.CompatibilityRange) != "" {
		r, err := version.ParseRange(in.CompatibilityRange)
		if err != nil {
			errs = append(errs, field.Invalid(p.Child("compatibilityRange"), in.CompatibilityRange, err.Error()))
		} else {
			dep.Range = &r
		}
	}
	return dep, errs
}

func (c *Catalog) validateDefaults(p *field.Path) field.ErrorList {
	var errs field.ErrorList
	d := c.defaults
	if d.Language != "" && !c.languages.Has(string(d.Language)) {
		errs = append(errs, field.NotSupported(p.Child("language"), d.Language, sets.List(c.languages)))
	}
	if d.Packaging != "" && !c.packagings.Has(string(d.Packaging)) {
		errs = append(errs, field.NotSupported(p.Child("packaging"), d.Packaging, sets.List(c.packagings)))
	}
	if d.Type != "" && !c.types.Has(string(d.Type)) {
		errs = append(errs, field.NotSupported(p.Child("type"), d.Type, sets.List(c.types)))
	}
	if d.JavaVersion != "" && !c.javaVersions.Has(d.JavaVersion) {
		errs = append(errs, field.NotSupported(p.Child("javaVersion"), d.JavaVersion, sets.List(c.javaVersions)))
	}

	if d.PlatformVersion != "" {
		v, err := version.Parse(d.PlatformVersion)
		if err != nil {
			return append(errs, field.Invalid(p.Child("platformVersion"), d.PlatformVersion, err.Error()))
		}
		c.defaultVersion = v
		return errs
	}
	// No explicit default: prefer the latest release, then the latest of anything.
	if v, ok := version.Max(c.platformVersions, version.Version.IsRelease); ok {
		c.defaultVersion = v
	} else if v, ok := version.Max(c.platformVersions, nil); ok {
		c.defaultVersion = v
	}
	return errs
}

// Dependencies returns every catalog entry in declaration order.
func (c *Catalog) Dependencies() []Dependency {
	return c.dependencies
}

// Get looks a dependency up by id, falling back to "groupId:artifactId" coordinates.
func (c *Catalog) Get(idOrCoordinates string) (Dependency, bool) {
	if i, ok := c.byID[idOrCoordinates]; ok {
		return c.dependencies[i], true
	}
	if i, ok := c.byCoordinates[idOrCoordinates]; ok {
		return c.dependencies[i], true
	}
	return Dependency{}, false
}

func (c *Catalog) Defaults() v1alpha1.Defaults {
	return c.defaults
}

// DefaultPlatformVersion is the explicit default, else the latest release listed.
// It is the zero Version when the catalog lists no platform versions.
func (c *Catalog) DefaultPlatformVersion() version.Version {
	return c.defaultVersion
}

func (c *Catalog) SupportsLanguage(l v1alpha1.Language) bool {
	return c.languages.Has(string(l))
}

func (c *Catalog) SupportsPackaging(p v1alpha1.Packaging) bool {
	return c.packagings.Has(string(p))
}

func (c *Catalog) SupportsType(t v1alpha1.BuildType) bool {
	return c.types.Has(string(t))
}

func (c *Catalog) SupportsJavaVersion(v string) bool {
	return c.javaVersions.Has(v)
}

// Languages returns the supported languages, sorted.
func (c *Catalog) Languages() []string {
	return sets.List(c.languages)
}

func (c *Catalog) Packagings() []string {
	return sets.List(c.packagings)
}

func (c *Catalog) Types() []string {
	return sets.List(c.types)
}

func (c *Catalog) JavaVersions() []string {
	return sets.List(c.javaVersions)
}

func (c *Catalog) RootStarter() v1alpha1.Coordinates {
	return c.rootStarter
}

func (c *Catalog) TestStarter() v1alpha1.Coordinates {
	return c.testStarter
}

func (c *Catalog) LanguageDependencies(l v1alpha1.Language) []v1alpha1.Coordinates {
	return c.languageDependencies[l]
}

func (c *Catalog) PackagingDependencies(p v1alpha1.Packaging) []v1alpha1.PackagingDependency {
	return c.packagingDependencies[p]
}
