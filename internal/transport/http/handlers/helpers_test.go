package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmassist/auth-service/internal/application/auth"
	"github.com/farmassist/auth-service/internal/infrastructure/memory"
	"github.com/farmassist/auth-service/internal/infrastructure/security"
	"github.com/farmassist/auth-service/internal/transport/http/middleware"
	"github.com/farmassist/auth-service/internal/transport/http/response"
)

const testSecret = "handler-test-secret-with-enough-bytes"

type testEnv struct {
	h      *AuthHandler
	users  *memory.UserRepo
	signer *security.JWTSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	signer := security.NewJWTSigner(testSecret, "farm-auth-test")
	svc := auth.NewService(
		users,
		security.NewBcryptHasher(bcrypt.MinCost),
		signer,
		memory.NewNoopPublisher(),
		auth.Config{AccessTTL: time.Hour},
	)
	return &testEnv{h: NewAuthHandler(svc), users: users, signer: signer}
}

// meHandler wraps Me with the real auth middleware.
func (e *testEnv) meHandler() http.Handler {
	return middleware.Auth(e.signer, response.WriteError)(http.HandlerFunc(e.h.Me))
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(t *testing.T, h http.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader = http.NoBody
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			rd = mustJSONBody(t, body)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// errorBody decodes the {"error": {...}} shape.
type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var eb errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eb), rr.Body.String())
	return eb
}

// decodeData unwraps {"data": ...} into out.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.NotEmpty(t, env.Data, rr.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func registerBody(email, password string) map[string]string {
	return map[string]string{
		"firstName":   "Ada",
		"lastName":    "Okafor",
		"email":       email,
		"location":    "Nakuru",
		"phoneNumber": "+254700000000",
		"farmName":    "Green Acres",
		"farmSize":    "12 acres",
		"farmType":    "maize",
		"password":    password,
	}
}
