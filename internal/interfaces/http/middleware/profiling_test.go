package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bakeryaid/backend/internal/interfaces/http/middleware"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
}

func TestProfiling_LabelsRouteAndMethod(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))

	var route, method string
	r.GET("/api/v1/beneficiaries/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		method, _ = pprof.Label(c.Request.Context(), "method")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/beneficiaries/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/beneficiaries/:id", route)
	assert.Equal(t, http.MethodGet, method)
}

func TestProfiling_SkipsHealth(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))

	labelled := true
	r.GET("/health", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}

func TestProfiling_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling(middleware.ProfilingConfig{Enabled: false}))

	called := false
	r.GET("/test", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.True(t, called)
}
