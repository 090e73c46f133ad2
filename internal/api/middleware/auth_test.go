package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/hydradig/internal/api/middleware"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequireAPIKey(key))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		header   string
		wantCode int
	}{
		{"correct key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"no key configured", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAuthRouter(tt.key)
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
