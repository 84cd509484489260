package version

import "fmt"

// MalformedVersionError indicates that a version string could not be parsed.
type MalformedVersionError struct {
	Input  string
	Reason string
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version %q: %s", e.Input, e.Reason)
}

// MalformedRangeError indicates that a version range string could not be parsed.
type MalformedRangeError struct {
	Input  string
	Reason string
	Err    error
}

func (e *MalformedRangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed version range %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed version range %q: %s", e.Input, e.Reason)
}

func (e *MalformedRangeError) Unwrap() error {
	return e.Err
}
