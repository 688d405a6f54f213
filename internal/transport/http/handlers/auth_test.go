package http_handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmassist/auth-service/internal/transport/http/dto"
	"github.com/farmassist/auth-service/internal/transport/http/middleware"
)

func TestRegister_Created_WithProfileAndNoToken(t *testing.T) {
	env := newTestEnv(t)

	rr := do(t, env.h.Register, http.MethodPost, "/api/auth/register", registerBody("A@B.com", "Secret1!"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var data dto.RegisterData
	decodeData(t, rr, &data)
	assert.Equal(t, "Registration successful", data.Message)
	assert.Equal(t, "a@b.com", data.User.Email)
	assert.Equal(t, "Green Acres", data.User.FarmName)
	assert.NotEmpty(t, data.User.ID)

	raw := rr.Body.String()
	assert.NotContains(t, raw, "Secret1!")
	assert.NotContains(t, raw, "$2a$")
	assert.NotContains(t, raw, "token")
	assert.Equal(t, 1, env.users.Len())
}

func TestRegister_Duplicate_Conflict(t *testing.T) {
	env := newTestEnv(t)

	first := do(t, env.h.Register, http.MethodPost, "/api/auth/register", registerBody("a@b.com", "Secret1!"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(t, env.h.Register, http.MethodPost, "/api/auth/register", registerBody(" a@B.com ", "Other2@"))
	require.Equal(t, http.StatusConflict, second.Code)
	eb := decodeError(t, second)
	assert.Equal(t, "email_already_exists", eb.Error.Code)
	assert.Equal(t, 1, env.users.Len())
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		body  any
		code  string
		field string
	}{
		{"missing email", map[string]string{"password": "Secret1!"}, "missing_field", "email"},
		{"missing password", map[string]string{"email": "a@b.com"}, "missing_field", "password"},
		{"bad email", map[string]string{"email": "not-an-email", "password": "Secret1!"}, "invalid_field", "email"},
		{"long password", map[string]string{"email": "a@b.com", "password": strings.Repeat("p", 73)}, "invalid_field", "password"},
		{"unknown field", `{"email":"a@b.com","password":"x","role":"admin"}`, "invalid_json", ""},
		{"garbage", `{not json`, "invalid_json", ""},
		{"trailing", `{"email":"a@b.com","password":"x"}{}`, "invalid_json", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, env.h.Register, http.MethodPost, "/api/auth/register", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			eb := decodeError(t, rr)
			assert.Equal(t, tc.code, eb.Error.Code)
			if tc.field != "" {
				assert.Equal(t, tc.field, eb.Error.Meta["field"])
			}
		})
	}
	assert.Equal(t, 0, env.users.Len())
}

func TestLogin_Success_ReturnsBearerToken(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, do(t, env.h.Register, http.MethodPost, "/", registerBody("a@b.com", "Secret1!")).Code)

	rr := do(t, env.h.Login, http.MethodPost, "/api/auth/login", map[string]string{"email": "A@b.com", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var data dto.LoginData
	decodeData(t, rr, &data)
	assert.Equal(t, "Bearer", data.TokenType)
	assert.Equal(t, int64(3600), data.ExpiresIn)
	assert.NotContains(t, rr.Body.String(), "access_token")

	claims, err := env.signer.VerifyAccessToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestLogin_UnknownEmailAndWrongPassword_AreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, do(t, env.h.Register, http.MethodPost, "/", registerBody("a@b.com", "Secret1!")).Code)

	wrong := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "a@b.com", "password": "nope"})
	unknown := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "ghost@b.com", "password": "Secret1!"})

	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, wrong.Code, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "invalid_credentials", decodeError(t, wrong).Error.Code)
}

func TestLogin_MissingFields_BadRequest(t *testing.T) {
	env := newTestEnv(t)

	rr := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing_field", decodeError(t, rr).Error.Code)
}

func TestLegacyRoutes_FlatBodies(t *testing.T) {
	env := newTestEnv(t)

	reg := do(t, env.h.RegisterLegacy, http.MethodPost, "/registration", registerBody("farmer@x.io", "Secret1!"))
	require.Equal(t, http.StatusCreated, reg.Code)
	assert.JSONEq(t, `{"message":"Registration successful"}`, reg.Body.String())

	login := do(t, env.h.LoginLegacy, http.MethodPost, "/login", map[string]string{"email": "farmer@x.io", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, login.Code)

	var tok dto.LegacyToken
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &tok))
	_, err := env.signer.VerifyAccessToken(tok.Token)
	require.NoError(t, err)

	dup := do(t, env.h.RegisterLegacy, http.MethodPost, "/registration", registerBody("farmer@x.io", "Secret1!"))
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.JSONEq(t, `{"message":"email already registered"}`, dup.Body.String())
}

func TestLegacyRoutes_ErrorsUseFlatMessage(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, do(t, env.h.RegisterLegacy, http.MethodPost, "/registration", registerBody("farmer@x.io", "Secret1!")).Code)

	bad := do(t, env.h.LoginLegacy, http.MethodPost, "/login", map[string]string{"email": "farmer@x.io", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.JSONEq(t, `{"message":"invalid email or password"}`, bad.Body.String())

	missing := do(t, env.h.RegisterLegacy, http.MethodPost, "/registration", map[string]string{"email": "x@y.io"})
	require.Equal(t, http.StatusBadRequest, missing.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(missing.Body.Bytes(), &m))
	assert.NotContains(t, m, "error")
	assert.NotEmpty(t, m["message"])
}

func TestLogin_PasswordBeyondBcryptLimit_Rejected(t *testing.T) {
	env := newTestEnv(t)
	pw := strings.Repeat("p", 72)
	require.Equal(t, http.StatusCreated, do(t, env.h.Register, http.MethodPost, "/", registerBody("long@b.com", pw)).Code)

	ok := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "long@b.com", "password": pw})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	rr := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "long@b.com", "password": pw + "EXTRA-GARBAGE"})
	require.Equal(t, http.StatusUnauthorized, rr.Code, rr.Body.String())
	assert.Equal(t, "invalid_credentials", decodeError(t, rr).Error.Code)
}

func TestMe_WithValidToken_ReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, do(t, env.h.Register, http.MethodPost, "/", registerBody("a@b.com", "Secret1!")).Code)

	login := do(t, env.h.Login, http.MethodPost, "/", map[string]string{"email": "a@b.com", "password": "Secret1!"})
	var data dto.LoginData
	decodeData(t, login, &data)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	rr := httptest.NewRecorder()
	env.meHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var me dto.MeData
	decodeData(t, rr, &me)
	assert.Equal(t, "a@b.com", me.User.Email)
	assert.Equal(t, "Ada", me.User.FirstName)
	assert.NotContains(t, rr.Body.String(), "$2a$")
}

func TestMe_MissingOrGarbledToken_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	for _, h := range []string{"", "Bearer garbage", "Basic Zm9vOmJhcg=="} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		rr := httptest.NewRecorder()
		env.meHandler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", h)
	}
}

func TestMe_TokenForUnknownUser_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	tok, _, err := env.signer.SignAccessToken("00000000-0000-4000-8000-000000000000", "ghost@b.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	env.meHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token_invalid", decodeError(t, rr).Error.Code)
}

func TestMe_WithoutAuthMiddleware_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(middleware.WithUser(context.Background(), "", ""))
	rr := httptest.NewRecorder()
	env.h.Me(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
