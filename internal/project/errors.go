package project

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// InvalidRequestError is returned when a request fails validation. No project is
// generated for it.
type InvalidRequestError struct {
	Errors field.ErrorList
	// Cause is the underlying error when one check failed with a typed error,
	// e.g. a *version.MalformedVersionError.
	Cause error
}

func (e *InvalidRequestError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid project request"
	}
	return "invalid project request: " + e.Errors.ToAggregate().Error()
}

func (e *InvalidRequestError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors)+1)
	for _, fe := range e.Errors {
		out = append(out, fe)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}
