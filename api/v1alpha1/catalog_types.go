package v1alpha1

// CatalogSpec is the metadata served for one generator deployment: the
// enumerations the form offers, their defaults, and the dependency catalog.
type CatalogSpec struct {
	PlatformVersions []string    `json:"platformVersions"`
	Languages        []Language  `json:"languages"`
	Packagings       []Packaging `json:"packagings"`
	JavaVersions     []string    `json:"javaVersions"`
	Types            []BuildType `json:"types"`

	Defaults Defaults `json:"defaults"`

	// RootStarter is added to the build when no selected dependency is a starter.
	RootStarter Coordinates `json:"rootStarter"`
	// TestStarter is always added to the build with test scope.
	TestStarter Coordinates `json:"testStarter"`

	// LanguageDependencies are the runtime libraries a language needs, keyed by language.
	LanguageDependencies map[Language][]Coordinates `json:"languageDependencies,omitempty"`
	// PackagingDependencies are catalog ids implied by a packaging, keyed by packaging.
	PackagingDependencies map[Packaging][]PackagingDependency `json:"packagingDependencies,omitempty"`

	Dependencies []Dependency `json:"dependencies"`
}

// Defaults are applied to any request field left empty.
type Defaults struct {
	GroupID         string    `json:"groupId,omitempty"`
	ArtifactID      string    `json:"artifactId,omitempty"`
	Description     string    `json:"description,omitempty"`
	Language        Language  `json:"language,omitempty"`
	Packaging       Packaging `json:"packaging,omitempty"`
	JavaVersion     string    `json:"javaVersion,omitempty"`
	Type            BuildType `json:"type,omitempty"`
	PlatformVersion string    `json:"platformVersion,omitempty"`
}

// PackagingDependency pulls a catalog dependency into the build, optionally with
// a scope override (war packaging needs the embedded container as provided).
type PackagingDependency struct {
	ID    string          `json:"id"`
	Scope DependencyScope `json:"scope,omitempty"`
}

// Dependency is a selectable catalog entry.
type Dependency struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	GroupID     string `json:"groupId"`
	ArtifactID  string `json:"artifactId"`
	// Scope defaults to compile.
	Scope DependencyScope `json:"scope,omitempty"`
	// Starter defaults to true. Non-starter dependencies do not replace the root starter.
	Starter *bool `json:"starter,omitempty"`
	// CompatibilityRange limits the platform versions the dependency is offered for.
	// Empty means compatible with every version.
	CompatibilityRange string   `json:"compatibilityRange,omitempty"`
	Facets             []string `json:"facets,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
}
