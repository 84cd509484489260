// Package metadata derives the canonical identifiers of a generated project from
// the raw values a user typed into the form.
//
// Every function is pure. When an input cannot be mapped to a valid Java
// identifier the derivation falls back to a fixed default instead of failing.
package metadata

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultPackageName is used when group and artifact ids leave no valid package segment.
	DefaultPackageName = "com.example.demo"
	// DefaultApplicationName is used when no valid type name can be built.
	DefaultApplicationName = "Application"

	applicationSuffix = "Application"
)

var (
	reNonIdentifier = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	reLeadingDigits = regexp.MustCompile(`^\p{N}+`)
	reWordSeparator = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "false": {},
	"final": {}, "finally": {}, "float": {}, "for": {}, "goto": {}, "if": {},
	"implements": {}, "import": {}, "instanceof": {}, "int": {}, "interface": {},
	"long": {}, "native": {}, "new": {}, "null": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "return": {}, "short": {}, "static": {},
	"strictfp": {}, "super": {}, "switch": {}, "synchronized": {}, "this": {},
	"throw": {}, "throws": {}, "transient": {}, "true": {}, "try": {}, "void": {},
	"volatile": {}, "while": {},
}

// Input holds the raw identifiers of a request.
type Input struct {
	GroupID     string
	ArtifactID  string
	Name        string
	PackageName string
}

// Derivation is the set of identifiers derived from an Input.
type Derivation struct {
	Name            string
	PackageName     string
	ApplicationName string
	BaseDirectory   string
	// Fallbacks lists the derivations that had to use a default value.
	Fallbacks []Fallback
}

// Fallback records a derivation that could not use the user's input.
type Fallback struct {
	Field string
	Input string
	Value string
}

func (f Fallback) String() string {
	return f.Field + ": " + strings.TrimSpace(f.Input) + " is not a valid identifier, using " + f.Value
}

// Derive computes every identifier of in.
func Derive(in Input) Derivation {
	d := Derivation{
		Name:          ProjectName(in.Name, in.ArtifactID),
		BaseDirectory: BaseDirectory(in.ArtifactID),
	}

	var ok bool
	if d.PackageName, ok = packageName(in.GroupID, in.ArtifactID, in.PackageName); !ok {
		d.Fallbacks = append(d.Fallbacks, Fallback{Field: "packageName", Input: joinNonEmpty(in.GroupID, in.ArtifactID), Value: d.PackageName})
	}
	if d.ApplicationName, ok = applicationClassName(in.Name, in.ArtifactID); !ok {
		d.Fallbacks = append(d.Fallbacks, Fallback{Field: "applicationName", Input: d.Name, Value: d.ApplicationName})
	}
	return d
}

// BaseDirectory is the root folder of the generated archive. The artifact id is
// already filesystem-safe once the request is validated.
func BaseDirectory(artifactID string) string {
	return artifactID
}

// ProjectName is name, or artifactID when name is blank.
func ProjectName(name, artifactID string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return artifactID
}

// PackageName returns explicit verbatim when set. Otherwise it joins the
// sanitized groupID and artifactID: hyphens and other characters invalid in a
// Java identifier are removed, leading digits are stripped from each segment,
// segments made only of underscores are dropped and keywords get a trailing
// underscore. DefaultPackageName is returned when nothing
// valid remains.
func PackageName(groupID, artifactID, explicit string) string {
	p, _ := packageName(groupID, artifactID, explicit)
	return p
}

func packageName(groupID, artifactID, explicit string) (string, bool) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, true
	}

	candidate := joinNonEmpty(groupID, artifactID)
	segments := make([]string, 0, strings.Count(candidate, ".")+1)
	for _, raw := range strings.Split(candidate, ".") {
		s := reNonIdentifier.ReplaceAllString(raw, "")
		s = reLeadingDigits.ReplaceAllString(s, "")
		if strings.Trim(s, "_") == "" {
			continue
		}
		if _, reserved := javaKeywords[s]; reserved {
			s += "_"
		}
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		return DefaultPackageName, false
	}
	return strings.Join(segments, "."), true
}

// ApplicationClassName converts name (or artifactID when name is blank) to
// PascalCase and appends "Application". DefaultApplicationName is returned when
// the result would not start with a letter, e.g. for "42my-project".
func ApplicationClassName(name, artifactID string) string {
	n, _ := applicationClassName(name, artifactID)
	return n
}

func applicationClassName(name, artifactID string) (string, bool) {
	source := ProjectName(name, artifactID)

	var b strings.Builder
	for _, word := range reWordSeparator.Split(source, -1) {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	candidate := b.String()

	first, _ := utf8.DecodeRuneInString(candidate)
	if candidate == "" || !unicode.IsLetter(first) {
		return DefaultApplicationName, false
	}
	if strings.HasSuffix(candidate, applicationSuffix) {
		return candidate, true
	}
	return candidate + applicationSuffix, true
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}
