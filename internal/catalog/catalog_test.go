package catalog

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
)

func minimalSpec() v1alpha1.CatalogSpec {
	return v1alpha1.CatalogSpec{
		PlatformVersions: []string{"2.1.4.RELEASE"},
		Languages:        []v1alpha1.Language{v1alpha1.LanguageJava},
		Packagings:       []v1alpha1.Packaging{v1alpha1.PackagingJar},
		JavaVersions:     []string{"1.8"},
		Types:            []v1alpha1.BuildType{v1alpha1.BuildTypeMaven},
		RootStarter:      v1alpha1.Coordinates{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter"},
		Dependencies: []v1alpha1.Dependency{
			{ID: "web", GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter-web"},
		},
	}
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := len(c.Dependencies()); got != 7 {
		t.Fatalf("expected 7 dependencies, got %d", got)
	}
	if got := c.DefaultPlatformVersion().String(); got != "2.1.4.RELEASE" {
		t.Fatalf("expected default platform version 2.1.4.RELEASE, got %q", got)
	}
	if diff := cmp.Diff([]string{"groovy", "java", "kotlin"}, c.Languages()); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	if !c.SupportsPackaging(v1alpha1.PackagingWar) || c.SupportsPackaging("ear") {
		t.Fatalf("unexpected packaging support")
	}
	if !c.SupportsJavaVersion("1.7") {
		t.Fatalf("expected java 1.7 to be supported")
	}

	bur, ok := c.Get("org.acme:bur")
	if !ok {
		t.Fatalf("expected org.acme:bur in catalog")
	}
	if bur.Range == nil || bur.Range.String() != "[2.1.4.RELEASE,2.2.0.BUILD-SNAPSHOT)" {
		t.Fatalf("unexpected bur range: %v", bur.Range)
	}

	h2, ok := c.Get("h2")
	if !ok {
		t.Fatalf("expected h2 in catalog")
	}
	if h2.Starter || h2.Scope != v1alpha1.DependencyScopeRuntime {
		t.Fatalf("expected h2 to be a runtime non-starter, got %+v", h2)
	}

	web, _ := c.Get("web")
	if web.Scope != v1alpha1.DependencyScopeCompile || !web.Starter {
		t.Fatalf("expected web to default to a compile starter, got %+v", web)
	}

	want := []v1alpha1.PackagingDependency{{ID: "web"}, {ID: "tomcat", Scope: v1alpha1.DependencyScopeProvided}}
	if diff := cmp.Diff(want, c.PackagingDependencies(v1alpha1.PackagingWar)); diff != "" {
		t.Fatalf("war dependencies mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.LanguageDependencies(v1alpha1.LanguageKotlin)); got != 2 {
		t.Fatalf("expected 2 kotlin dependencies, got %d", got)
	}
}

func TestGet_ByCoordinates(t *testing.T) {
	c, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d, ok := c.Get("org.springframework.boot:spring-boot-starter-web")
	if !ok || d.ID != "web" {
		t.Fatalf("expected coordinates lookup to find web, got %+v", d)
	}
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("expected unknown id to be missing")
	}
}

func TestNew_DefaultPlatformVersionPrefersLatestRelease(t *testing.T) {
	spec := minimalSpec()
	spec.PlatformVersions = []string{"2.2.0.BUILD-SNAPSHOT", "1.5.17.RELEASE", "2.1.4.RELEASE", "2.2.0.M1"}

	c, err := New(spec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.DefaultPlatformVersion().String(); got != "2.1.4.RELEASE" {
		t.Fatalf("expected 2.1.4.RELEASE, got %q", got)
	}

	spec.PlatformVersions = []string{"2.2.0.M1", "2.2.0.BUILD-SNAPSHOT"}
	c, err = New(spec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.DefaultPlatformVersion().String(); got != "2.2.0.BUILD-SNAPSHOT" {
		t.Fatalf("expected 2.2.0.BUILD-SNAPSHOT, got %q", got)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*v1alpha1.CatalogSpec)
		want   string
	}{
		{
			name: "duplicate id",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.Dependencies = append(s.Dependencies, s.Dependencies[0])
			},
			want: "spec.dependencies[1].id: Duplicate value",
		},
		{
			name: "missing artifact id",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.Dependencies[0].ArtifactID = ""
			},
			want: "spec.dependencies[0].artifactId: Required value",
		},
		{
			name: "malformed range",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.Dependencies[0].CompatibilityRange = "[2.2.0.RELEASE,2.1.0.RELEASE)"
			},
			want: "spec.dependencies[0].compatibilityRange: Invalid value",
		},
		{
			name: "malformed platform version",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.PlatformVersions = append(s.PlatformVersions, "latest")
			},
			want: "spec.platformVersions[1]: Invalid value",
		},
		{
			name: "unsupported default language",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.Defaults.Language = v1alpha1.LanguageKotlin
			},
			want: "spec.defaults.language: Unsupported value",
		},
		{
			name: "unknown packaging dependency",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.PackagingDependencies = map[v1alpha1.Packaging][]v1alpha1.PackagingDependency{
					v1alpha1.PackagingWar: {{ID: "tomcat"}},
				}
			},
			want: "spec.packagingDependencies[war][0].id: Not found",
		},
		{
			name: "missing root starter",
			mutate: func(s *v1alpha1.CatalogSpec) {
				s.RootStarter = v1alpha1.Coordinates{}
			},
			want: "spec.rootStarter.artifactId: Required value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := minimalSpec()
			tt.mutate(&spec)
			_, err := New(spec)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("platformVersions: [2.1.4.RELEASE]\nbootVersions: [2.1.4.RELEASE]\n"))
	if err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestLoadConfigMap(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "starter-catalog", Namespace: "starter"},
		Data:       map[string]string{DefaultConfigMapKey: string(data)},
	}
	binary := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "starter-catalog-binary", Namespace: "starter"},
		BinaryData: map[string][]byte{"custom.yaml": data},
	}
	c := fake.NewClientBuilder().WithScheme(clientgoscheme.Scheme).WithObjects(cm, binary).Build()
	ctx := context.Background()

	cat, err := LoadConfigMap(ctx, c, types.NamespacedName{Namespace: "starter", Name: "starter-catalog"}, "")
	if err != nil {
		t.Fatalf("LoadConfigMap: %v", err)
	}
	if _, ok := cat.Get("data-jpa"); !ok {
		t.Fatalf("expected data-jpa in catalog")
	}

	if _, err := LoadConfigMap(ctx, c, types.NamespacedName{Namespace: "starter", Name: "starter-catalog-binary"}, "custom.yaml"); err != nil {
		t.Fatalf("LoadConfigMap binary: %v", err)
	}

	if _, err := LoadConfigMap(ctx, c, types.NamespacedName{Namespace: "starter", Name: "starter-catalog"}, "missing.yaml"); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := LoadConfigMap(ctx, c, types.NamespacedName{Namespace: "starter", Name: "absent"}, ""); err == nil {
		t.Fatalf("expected not found error")
	}
}
