package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkgctx "github.com/farmassist/auth-service/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// maxRequestIDLen caps client supplied ids so they stay log friendly.
const maxRequestIDLen = 128

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderXRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		ctx := pkgctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
