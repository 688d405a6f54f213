package middleware

import (
	"context"

	pkgctx "github.com/farmassist/auth-service/internal/pkg/context"
)

type emailKey struct{}

// WithUser stores the authenticated farmer. The id goes through pkgctx so
// loggers below the transport layer can see it.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = pkgctx.WithFarmerID(ctx, userID)
	return context.WithValue(ctx, emailKey{}, email)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v := pkgctx.GetFarmerID(ctx)
	return v, v != ""
}

func EmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey{}).(string)
	return v, ok && v != ""
}
