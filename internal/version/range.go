package version

import (
	"strings"
)

// Range is a version interval.
//
// Textual forms:
// - "2.1.0.RELEASE" means [2.1.0.RELEASE, +inf)
// - "[2.1.4.RELEASE,2.2.0.BUILD-SNAPSHOT)" with '[' ']' inclusive and '(' ')' exclusive
type Range struct {
	Lower          Version
	LowerInclusive bool
	// Upper is nil when the range is unbounded above.
	Upper          *Version
	UpperInclusive bool
}

// ParseRange parses raw into a Range. It returns a *MalformedRangeError when raw
// is not a valid range or when its lower bound is above its upper bound.
func ParseRange(raw string) (Range, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Range{}, &MalformedRangeError{Input: raw, Reason: "empty range"}
	}

	if s[0] != '[' && s[0] != '(' {
		lower, err := Parse(s)
		if err != nil {
			return Range{}, &MalformedRangeError{Input: raw, Reason: "lower bound", Err: err}
		}
		return Range{Lower: lower, LowerInclusive: true}, nil
	}

	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return Range{}, &MalformedRangeError{Input: raw, Reason: "missing closing ']' or ')'"}
	}
	bounds := strings.Split(s[1:len(s)-1], ",")
	if len(bounds) != 2 {
		return Range{}, &MalformedRangeError{Input: raw, Reason: "expected exactly two bounds"}
	}

	lower, err := Parse(bounds[0])
	if err != nil {
		return Range{}, &MalformedRangeError{Input: raw, Reason: "lower bound", Err: err}
	}
	upper, err := Parse(bounds[1])
	if err != nil {
		return Range{}, &MalformedRangeError{Input: raw, Reason: "upper bound", Err: err}
	}

	r := Range{
		Lower:          lower,
		LowerInclusive: s[0] == '[',
		Upper:          &upper,
		UpperInclusive: last == ']',
	}
	switch c := Compare(lower, upper); {
	case c > 0:
		return Range{}, &MalformedRangeError{Input: raw, Reason: "lower bound is above upper bound"}
	case c == 0 && !(r.LowerInclusive && r.UpperInclusive):
		return Range{}, &MalformedRangeError{Input: raw, Reason: "range is empty"}
	}
	return r, nil
}

func MustParseRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// Contains reports whether v lies within r.
func (r Range) Contains(v Version) bool {
	if v.IsZero() || r.Lower.IsZero() {
		return false
	}
	lc := Compare(v, r.Lower)
	if lc < 0 || (lc == 0 && !r.LowerInclusive) {
		return false
	}
	if r.Upper == nil {
		return true
	}
	uc := Compare(v, *r.Upper)
	return uc < 0 || (uc == 0 && r.UpperInclusive)
}

func (r Range) String() string {
	if r.Upper == nil && r.LowerInclusive {
		return r.Lower.String()
	}
	var b strings.Builder
	if r.LowerInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	b.WriteString(r.Lower.String())
	b.WriteByte(',')
	if r.Upper != nil {
		b.WriteString(r.Upper.String())
	}
	if r.UpperInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}
