package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(issuer *auth.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(issuer))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": Actor(c), "requestID": RequestIDFrom(c)})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewIssuer("0123456789abcdef0123", time.Hour)
	token, _, err := issuer.Issue(42, "ana@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous public", path: "/whoami", wantStatus: http.StatusOK, wantBody: `"actor":0`},
		{name: "signed in public", path: "/whoami", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: `"actor":42`},
		{name: "anonymous private", path: "/private", wantStatus: http.StatusUnauthorized},
		{name: "signed in private", path: "/private", header: "bearer " + token, wantStatus: http.StatusNoContent},
		{name: "malformed header", path: "/whoami", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "forged token", path: "/whoami", header: "Bearer " + token + "x", wantStatus: http.StatusUnauthorized},
	}

	engine := newEngine(issuer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := newEngine(auth.NewIssuer("0123456789abcdef0123", time.Hour))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	minted := rec.Header().Get(RequestIDHeader)
	assert.Len(t, minted, 36)
	assert.Contains(t, rec.Body.String(), minted)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestMetrics(t *testing.T) {
	metrics := NewMetrics()
	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", metrics.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pantry_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
