package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
)

const testCatalog = "../../internal/catalog/testdata/catalog.yaml"

func testContext() context.Context {
	return log.IntoContext(context.Background(), logr.Discard())
}

func TestRun_ResolveYAML(t *testing.T) {
	var out bytes.Buffer
	err := run(testContext(), options{
		catalogPath: testCatalog,
		query:       "groupId=com.acme&artifactId=foo-bar&name=My+project&dependencies=web,data-jpa",
		output:      "yaml",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got v1alpha1.ResolvedProject
	if err := yaml.UnmarshalStrict(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if got.ApplicationName != "MyProjectApplication" || got.BaseDirectory != "foo-bar" {
		t.Fatalf("unexpected identifiers: %+v", got)
	}
	if got.Request.PackageName != "com.acme.foobar" {
		t.Fatalf("unexpected package %q", got.Request.PackageName)
	}
	if diff := cmp.Diff([]string{"web", "data-jpa"}, got.Request.Dependencies); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out.String(), "diagnostics") {
		t.Fatalf("expected diagnostics to be omitted:\n%s", out.String())
	}
}

func TestRun_SearchJSON(t *testing.T) {
	var out bytes.Buffer
	err := run(testContext(), options{
		catalogPath:     testCatalog,
		search:          "acme",
		platformVersion: "1.5.17.RELEASE",
		output:          "json",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got searchOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := searchOutput{PlatformVersion: "1.5.17.RELEASE", Selectable: []string{}, Invalid: []string{"org.acme:bur", "org.acme:biz"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    options
		want string
	}{
		{"no catalog", options{output: "yaml"}, "is required"},
		{"both catalogs", options{catalogPath: testCatalog, catalogConfigMap: "ns/name", output: "yaml"}, "mutually exclusive"},
		{"bad configmap ref", options{catalogConfigMap: "just-a-name", output: "yaml"}, "expected namespace/name"},
		{"bad output", options{catalogPath: testCatalog, output: "xml"}, "unsupported output"},
		{"bad version", options{catalogPath: testCatalog, query: "bootVersion=nope", output: "yaml"}, "invalid project request"},
		{"bad search version", options{catalogPath: testCatalog, searchAll: true, platformVersion: "nope", output: "yaml"}, "malformed version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(testContext(), tt.o, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteMetrics_IncludesResolutionCounters(t *testing.T) {
	err := run(testContext(), options{catalogPath: testCatalog, query: "dependencies=web", output: "yaml"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var out bytes.Buffer
	if err := writeMetrics(&out, metrics.Registry); err != nil {
		t.Fatalf("writeMetrics: %v", err)
	}
	for _, want := range []string{
		`starter_project_resolution_total{outcome="resolved"}`,
		"starter_project_resolution_duration_seconds_count",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %s in metrics output:\n%s", want, out.String())
		}
	}
}
