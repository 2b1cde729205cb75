package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler handles static file serving
type StaticHandler struct {
	assets fs.FS
}

// NewStaticHandler creates a new static file handler over assets
func NewStaticHandler(assets fs.FS) *StaticHandler {
	return &StaticHandler{
		assets: assets,
	}
}

// Index serves the main HTML page
func (h *StaticHandler) Index(c *gin.Context) {
	h.serveFile(c, "index.html")
}

// Asset serves /static/*filepath
func (h *StaticHandler) Asset(c *gin.Context) {
	name := strings.TrimPrefix(path.Clean(c.Param("filepath")), "/")
	if name == "" || name == "." {
		c.Status(http.StatusNotFound)
		return
	}
	h.serveFile(c, name)
}

// serveFile serves a specific file with the content type of its extension
func (h *StaticHandler) serveFile(c *gin.Context, filename string) {
	data, err := fs.ReadFile(h.assets, filename)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	// The page is rebuilt with the binary; only assets are cacheable
	if filename == "index.html" {
		c.Header("Cache-Control", "no-cache")
	} else {
		c.Header("Cache-Control", "public, max-age=3600")
	}

	c.Data(http.StatusOK, getContentType(filename), data)
}

// getContentType returns the appropriate content type for a file
func getContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
