package http_handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz_ReturnsOK(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestReadyz_AllChecksPass(t *testing.T) {
	calls := 0
	h := NewHealthHandler(
		ReadinessCheck{Name: "postgres", Check: func(context.Context) error { calls++; return nil }},
		ReadinessCheck{Name: "noop"},
	)

	rr := httptest.NewRecorder()
	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"status":"ready"}`, rr.Body.String())
}

func TestReadyz_FailingCheck_Unavailable(t *testing.T) {
	h := NewHealthHandler(
		ReadinessCheck{Name: "postgres", Check: func(context.Context) error { return errors.New("connection refused") }},
	)

	rr := httptest.NewRecorder()
	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "postgres unavailable", body["error"])
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
