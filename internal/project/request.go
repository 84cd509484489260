package project

import (
	"net/url"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
	"github.com/bayleafwalker/starter-core/internal/catalog"
)

var reArtifactID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ApplyDefaults returns a copy of req with every empty field taken from the
// catalog defaults. Name and PackageName are left for the metadata derivation.
func ApplyDefaults(req v1alpha1.ProjectRequest, c *catalog.Catalog) v1alpha1.ProjectRequest {
	d := c.Defaults()
	out := req
	out.Dependencies = append([]string(nil), req.Dependencies...)

	setDefault(&out.GroupID, d.GroupID)
	setDefault(&out.ArtifactID, d.ArtifactID)
	setDefault(&out.Description, d.Description)
	setDefault(&out.JavaVersion, d.JavaVersion)
	setDefault(&out.Language, d.Language)
	setDefault(&out.Packaging, d.Packaging)
	setDefault(&out.Type, d.Type)
	setDefault(&out.PlatformVersion, c.DefaultPlatformVersion().String())
	return out
}

func setDefault[T ~string](dst *T, def T) {
	if v := strings.TrimSpace(string(*dst)); v != "" {
		*dst = T(v)
		return
	}
	*dst = def
}

// Validate checks a defaulted request against the catalog enumerations. The
// platform version is validated during resolution.
func Validate(req v1alpha1.ProjectRequest, c *catalog.Catalog) field.ErrorList {
	var errs field.ErrorList

	if req.GroupID == "" {
		errs = append(errs, field.Required(field.NewPath("groupId"), ""))
	}
	switch {
	case req.ArtifactID == "":
		errs = append(errs, field.Required(field.NewPath("artifactId"), ""))
	case !reArtifactID.MatchString(req.ArtifactID) || strings.Trim(req.ArtifactID, ".") == "":
		errs = append(errs, field.Invalid(field.NewPath("artifactId"), req.ArtifactID, "must consist of letters, digits, '.', '_' or '-'"))
	}

	if !c.SupportsLanguage(req.Language) {
		errs = append(errs, field.NotSupported(field.NewPath("language"), req.Language, c.Languages()))
	}
	if !c.SupportsPackaging(req.Packaging) {
		errs = append(errs, field.NotSupported(field.NewPath("packaging"), req.Packaging, c.Packagings()))
	}
	if !c.SupportsType(req.Type) {
		errs = append(errs, field.NotSupported(field.NewPath("type"), req.Type, c.Types()))
	}
	if !c.SupportsJavaVersion(req.JavaVersion) {
		errs = append(errs, field.NotSupported(field.NewPath("javaVersion"), req.JavaVersion, c.JavaVersions()))
	}
	return errs
}

// FromQuery builds a request from the initial-state query of the form, such as
// "language=groovy&packageName=com.example.acme&dependencies=web,data-jpa".
//
// "bootVersion" is accepted as an alias of "platformVersion" and "style" as an
// alias of "dependencies". Dependency values may be repeated or comma separated.
func FromQuery(q url.Values) v1alpha1.ProjectRequest {
	req := v1alpha1.ProjectRequest{
		GroupID:         q.Get("groupId"),
		ArtifactID:      q.Get("artifactId"),
		Name:            q.Get("name"),
		Description:     q.Get("description"),
		PackageName:     q.Get("packageName"),
		Language:        v1alpha1.Language(q.Get("language")),
		PlatformVersion: q.Get("platformVersion"),
		Packaging:       v1alpha1.Packaging(q.Get("packaging")),
		JavaVersion:     q.Get("javaVersion"),
		Type:            v1alpha1.BuildType(q.Get("type")),
	}
	if req.PlatformVersion == "" {
		req.PlatformVersion = q.Get("bootVersion")
	}

	for _, key := range []string{"dependencies", "style"} {
		for _, v := range q[key] {
			for _, id := range strings.Split(v, ",") {
				if id = strings.TrimSpace(id); id != "" {
					req.Dependencies = append(req.Dependencies, id)
				}
			}
		}
	}
	return req
}

// ParseQuery is FromQuery over a raw query string. A leading "#!" or "?" is ignored.
func ParseQuery(raw string) (v1alpha1.ProjectRequest, error) {
	raw = strings.TrimPrefix(raw, "#!")
	raw = strings.TrimPrefix(raw, "?")
	q, err := url.ParseQuery(raw)
	if err != nil {
		return v1alpha1.ProjectRequest{}, err
	}
	return FromQuery(q), nil
}
