package resolver

import "context"

// Resolver computes a Plan (the reconciled dependency selection) for a given Input.
//
// Resolution is pure: the same Input always yields the same Plan, and the catalog
// is only read.
type Resolver interface {
	Resolve(ctx context.Context, in Input) (Plan, error)
}
