package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a platform version.
//
// Both spellings used by the platform are accepted:
// - "2.1.4.RELEASE", "2.2.0.BUILD-SNAPSHOT", "2.2.0.M1", "2.2.0.RC2"
// - "3.2.0", "3.2.0-SNAPSHOT", "3.2.0-M1", "3.2.0-RC1"
//
// The numeric core is a github.com/Masterminds/semver/v3 version. The qualifier is
// ranked separately because Maven qualifiers do not sort like semver pre-releases.
type Version struct {
	core      *mm.Version
	qualifier Qualifier
	raw       string
}

// Qualifier is the trailing release marker of a Version.
type Qualifier struct {
	// ID is the upper-cased qualifier without its number ("M", "RC", "BUILD-SNAPSHOT").
	// Empty for versions without a qualifier.
	ID     string
	Number int
}

// Qualifier ranks, lowest first. Versions with an equal numeric core are ordered
// by rank: milestones < release candidates < snapshots < releases.
const (
	rankUnknown = iota
	rankMilestone
	rankReleaseCandidate
	rankSnapshot
	rankRelease
)

var reVersion = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:[.-]([A-Za-z][A-Za-z0-9-]*?)(\d*))?$`)

// Parse parses raw into a Version. It returns a *MalformedVersionError when raw is
// not a recognized version.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Version{}, &MalformedVersionError{Input: raw, Reason: "empty version"}
	}
	m := reVersion.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, &MalformedVersionError{Input: raw, Reason: "expected major.minor.patch[.QUALIFIER]"}
	}

	core, err := mm.StrictNewVersion(m[1] + "." + m[2] + "." + m[3])
	if err != nil {
		return Version{}, &MalformedVersionError{Input: raw, Reason: err.Error()}
	}

	q := Qualifier{ID: strings.ToUpper(m[4])}
	if m[5] != "" {
		n, err := strconv.Atoi(m[5])
		if err != nil {
			return Version{}, &MalformedVersionError{Input: raw, Reason: fmt.Sprintf("qualifier number %q: %v", m[5], err)}
		}
		q.Number = n
	}
	return Version{core: core, qualifier: q, raw: trimmed}, nil
}

func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) Major() uint64 {
	if v.core == nil {
		return 0
	}
	return v.core.Major()
}

func (v Version) Minor() uint64 {
	if v.core == nil {
		return 0
	}
	return v.core.Minor()
}

func (v Version) Patch() uint64 {
	if v.core == nil {
		return 0
	}
	return v.core.Patch()
}

func (v Version) Qualifier() Qualifier {
	return v.qualifier
}

// IsZero reports whether v is the zero Version (never parsed).
func (v Version) IsZero() bool {
	return v.core == nil
}

// IsRelease reports whether v is a general availability version.
func (v Version) IsRelease() bool {
	return v.core != nil && v.qualifier.rank() == rankRelease
}

// String returns the version as it was spelled when parsed.
func (v Version) String() string {
	if v.core == nil {
		return ""
	}
	return v.raw
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (q Qualifier) rank() int {
	switch q.ID {
	case "", "RELEASE":
		return rankRelease
	case "BUILD-SNAPSHOT", "SNAPSHOT":
		return rankSnapshot
	case "RC":
		return rankReleaseCandidate
	case "M":
		return rankMilestone
	default:
		return rankUnknown
	}
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// The numeric core is compared first, then the qualifier rank, then the qualifier
// number. Unknown qualifiers sort below milestones and lexically among themselves.
func Compare(a, b Version) int {
	if a.core == nil && b.core == nil {
		return 0
	}
	if a.core == nil {
		return -1
	}
	if b.core == nil {
		return 1
	}
	if c := a.core.Compare(b.core); c != 0 {
		return c
	}

	ra, rb := a.qualifier.rank(), b.qualifier.rank()
	if ra != rb {
		return cmpInt(ra, rb)
	}
	if ra == rankUnknown && a.qualifier.ID != b.qualifier.ID {
		return strings.Compare(a.qualifier.ID, b.qualifier.ID)
	}
	return cmpInt(a.qualifier.Number, b.qualifier.Number)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the highest version in candidates that satisfies keep.
//
// If multiple versions are equal, the first encountered wins. A nil keep accepts
// every candidate.
func Max(candidates []Version, keep func(Version) bool) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if keep != nil && !keep(candidate) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}
