package v1alpha1

// NOTE: These types are the serialized form shared by the catalog file, the
// query-string initial state and the resolved output. Parsed views live in the
// internal packages.

type Language string

type Packaging string

type BuildType string

type DependencyScope string

const (
	LanguageJava   Language = "java"
	LanguageKotlin Language = "kotlin"
	LanguageGroovy Language = "groovy"

	PackagingJar Packaging = "jar"
	PackagingWar Packaging = "war"

	BuildTypeMaven  BuildType = "maven-project"
	BuildTypeGradle BuildType = "gradle-project"

	DependencyScopeCompile  DependencyScope = "compile"
	DependencyScopeRuntime  DependencyScope = "runtime"
	DependencyScopeProvided DependencyScope = "provided"
	DependencyScopeTest     DependencyScope = "test"
)

// Coordinates identifies an artifact outside of the dependency catalog, such as
// a language runtime library.
type Coordinates struct {
	GroupID    string          `json:"groupId"`
	ArtifactID string          `json:"artifactId"`
	Scope      DependencyScope `json:"scope,omitempty"`
}

// Key returns the "groupId:artifactId" form of c.
func (c Coordinates) Key() string {
	return c.GroupID + ":" + c.ArtifactID
}
