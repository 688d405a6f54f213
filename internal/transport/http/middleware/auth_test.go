package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmassist/auth-service/internal/application/auth"
	"github.com/farmassist/auth-service/internal/domain"
	"github.com/farmassist/auth-service/internal/transport/http/response"
)

// ---- fakes ----

type fakeVerifier struct {
	claims auth.TokenClaims
	err    error
	calls  int
	gotTok string
}

func (f *fakeVerifier) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	f.calls++
	f.gotTok = token
	return f.claims, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(response.StatusFor(err))
}

type nextRecorder struct {
	calls    int
	gotUID   string
	gotEmail string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.gotUID, _ = UserIDFromContext(r.Context())
	n.gotEmail, _ = EmailFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func runAuthMW(t *testing.T, verifier TokenVerifier, req *http.Request) (*httptest.ResponseRecorder, *writeErrRecorder, *nextRecorder) {
	t.Helper()

	rr := httptest.NewRecorder()
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	Auth(verifier, we.fn)(nx).ServeHTTP(rr, req)
	return rr, we, nx
}

// ---- tests ----

func TestAuth_MissingAuthorizationHeader_ReturnsTokenMissing(t *testing.T) {
	v := &fakeVerifier{}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	_, we, nx := runAuthMW(t, v, req)

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if !domain.Is(we.last, "token_missing") {
		t.Fatalf("expected token_missing, got %v", we.last)
	}
	if v.calls != 0 {
		t.Fatalf("verifier should not be called when header missing")
	}
}

func TestAuth_BadScheme_ReturnsTokenInvalid(t *testing.T) {
	for _, h := range []string{"Basic abc", "Bearer", "Bearer    ", "token"} {
		v := &fakeVerifier{}
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", h)

		_, we, nx := runAuthMW(t, v, req)

		if nx.calls != 0 {
			t.Fatalf("%q: expected next not called", h)
		}
		if !domain.Is(we.last, "token_invalid") {
			t.Fatalf("%q: expected token_invalid, got %v", h, we.last)
		}
		if v.calls != 0 {
			t.Fatalf("%q: verifier should not be called", h)
		}
	}
}

func TestAuth_VerifierError_IsPassedThrough(t *testing.T) {
	v := &fakeVerifier{err: domain.ErrTokenExpired()}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	_, we, nx := runAuthMW(t, v, req)

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if !domain.Is(we.last, "token_expired") {
		t.Fatalf("expected token_expired, got %v", we.last)
	}
	if v.gotTok != "abc.def.ghi" {
		t.Fatalf("verifier got %q", v.gotTok)
	}
}

func TestAuth_EmptySubject_ReturnsTokenInvalid(t *testing.T) {
	v := &fakeVerifier{claims: auth.TokenClaims{UserID: "  "}}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer t")

	_, we, nx := runAuthMW(t, v, req)

	if nx.calls != 0 || !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got next=%d err=%v", nx.calls, we.last)
	}
}

func TestAuth_ValidToken_InjectsIdentity(t *testing.T) {
	v := &fakeVerifier{claims: auth.TokenClaims{UserID: "u1", Email: "a@b.com"}}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "bearer tok")

	rr, we, nx := runAuthMW(t, v, req)

	if we.calls != 0 {
		t.Fatalf("unexpected error: %v", we.last)
	}
	if rr.Code != http.StatusOK || nx.calls != 1 {
		t.Fatalf("expected next called with 200, got code=%d calls=%d", rr.Code, nx.calls)
	}
	if nx.gotUID != "u1" || nx.gotEmail != "a@b.com" {
		t.Fatalf("identity not injected: uid=%q email=%q", nx.gotUID, nx.gotEmail)
	}
}
