package response

import (
	"net/http"

	pkgctx "github.com/farmassist/auth-service/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return pkgctx.GetRequestID(r.Context())
}
