package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks map[string]Check) *gin.Engine {
	h := NewHealthHandler(checks)
	r := gin.New()
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPost} {
		r.Handle(method, "/healthz", h.Health)
		r.Handle(method, "/readyz", h.Ready)
	}
	return r
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
		expectBody     bool
	}{
		{http.MethodGet, http.StatusOK, true},
		{http.MethodHead, http.StatusOK, false},
		{http.MethodOptions, http.StatusNoContent, false},
		{http.MethodPost, http.StatusOK, true},
	}

	failing := map[string]Check{"db": func(ctx context.Context) error { return errors.New("down") }}
	router := setupRouter(failing)

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			// liveness ignores failing dependencies
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectBody {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "ok", body["status"])
			} else {
				assert.Zero(t, w.Body.Len())
			}
		})
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name         string
		checks       map[string]Check
		wantStatus   int
		wantState    string
		wantPerCheck map[string]string
	}{
		{
			name:         "no checks",
			checks:       nil,
			wantStatus:   http.StatusOK,
			wantState:    "ok",
			wantPerCheck: map[string]string{},
		},
		{
			name:         "all healthy",
			checks:       map[string]Check{"db": ok, "redis": ok},
			wantStatus:   http.StatusOK,
			wantState:    "ok",
			wantPerCheck: map[string]string{"db": "ok", "redis": "ok"},
		},
		{
			name:         "one down",
			checks:       map[string]Check{"db": ok, "redis": down},
			wantStatus:   http.StatusServiceUnavailable,
			wantState:    "degraded",
			wantPerCheck: map[string]string{"db": "ok", "redis": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, tt.wantPerCheck, body.Checks)
		})
	}
}

func TestReady_HEAD(t *testing.T) {
	t.Parallel()

	down := map[string]Check{"db": func(ctx context.Context) error { return errors.New("down") }}
	w := httptest.NewRecorder()
	setupRouter(down).ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Zero(t, w.Body.Len())
}
