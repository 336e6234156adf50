package middleware

import (
	"context"

	pkgauth "github.com/marisolvega/threadmarket-backend/pkg/auth"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (pkgauth.Principal, bool) {
	if ctx == nil {
		return pkgauth.Principal{}, false
	}
	principal, ok := ctx.Value(ctxPrincipal).(pkgauth.Principal)
	return principal, ok
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, principal pkgauth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}
