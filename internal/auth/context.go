package auth

import (
	"context"

	"migration-estimator/core/types"
)

type principalKeyType struct{}

var principalKey principalKeyType

// PrincipalFromContext returns the authenticated caller, if any
func PrincipalFromContext(ctx context.Context) (types.Principal, bool) {
	p, ok := ctx.Value(principalKey).(types.Principal)
	return p, ok
}

// NewContext returns ctx carrying p
func NewContext(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
