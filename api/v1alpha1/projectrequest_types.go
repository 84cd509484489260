package v1alpha1

// ProjectRequest is a generation request as submitted by the form or derived from
// the query-string initial state. Empty fields are filled from catalog defaults.
type ProjectRequest struct {
	GroupID         string    `json:"groupId,omitempty"`
	ArtifactID      string    `json:"artifactId,omitempty"`
	Name            string    `json:"name,omitempty"`
	Description     string    `json:"description,omitempty"`
	PackageName     string    `json:"packageName,omitempty"`
	Language        Language  `json:"language,omitempty"`
	PlatformVersion string    `json:"platformVersion,omitempty"`
	Packaging       Packaging `json:"packaging,omitempty"`
	JavaVersion     string    `json:"javaVersion,omitempty"`
	Type            BuildType `json:"type,omitempty"`
	Dependencies    []string  `json:"dependencies,omitempty"`
}

// ResolvedProject is the resolved, defaulted request handed to the generation engine.
type ResolvedProject struct {
	Request         ProjectRequest    `json:"request"`
	ApplicationName string            `json:"applicationName"`
	BaseDirectory   string            `json:"baseDirectory"`
	Build           []BuildDependency `json:"build"`
	Facets          []string          `json:"facets,omitempty"`
	// Diagnostics is nil when nothing was dropped and no identifier fell back.
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// BuildDependency is one entry of the generated build file.
type BuildDependency struct {
	// ID is the catalog id, empty for dependencies that do not come from the catalog.
	ID         string          `json:"id,omitempty"`
	GroupID    string          `json:"groupId"`
	ArtifactID string          `json:"artifactId"`
	Scope      DependencyScope `json:"scope"`
}

type Diagnostics struct {
	Removed   []RemovedDependency `json:"removed,omitempty"`
	Fallbacks []string            `json:"fallbacks,omitempty"`
}

// RemovedDependency records a selected id that did not survive resolution.
type RemovedDependency struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
