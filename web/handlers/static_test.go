package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newStaticRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	assets := fstest.MapFS{
		"index.html": {Data: []byte("<html>ui</html>")},
		"app.css":    {Data: []byte("body{}")},
	}
	h := NewStaticHandler(assets)
	r := gin.New()
	r.GET("/", h.Index)
	r.GET("/static/*filepath", h.Asset)
	return r
}

func TestStaticHandler_Index(t *testing.T) {
	rec := httptest.NewRecorder()
	newStaticRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>ui</html>", rec.Body.String())
}

func TestStaticHandler_Asset(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		ctype  string
	}{
		{"css", "/static/app.css", http.StatusOK, "text/css; charset=utf-8"},
		{"missing", "/static/nope.js", http.StatusNotFound, ""},
		{"traversal", "/static/../../etc/passwd", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newStaticRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.ctype != "" {
				assert.Equal(t, tt.ctype, rec.Header().Get("Content-Type"))
			}
		})
	}
}
