package webui

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// Bundle exposes a built dashboard directory for serving.
type Bundle struct {
	DistFS    fs.FS  // Root dist filesystem.
	IndexHTML []byte // Raw index HTML content.
}

// Load opens the dashboard build output in dir.
func Load(dir string) (Bundle, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS wraps an already opened dist filesystem.
func LoadFS(distFS fs.FS) (Bundle, error) {
	indexHTML, errReadFile := fs.ReadFile(distFS, "index.html")
	if errReadFile != nil {
		return Bundle{}, fmt.Errorf("webui: read index.html: %w", errReadFile)
	}
	return Bundle{DistFS: distFS, IndexHTML: indexHTML}, nil
}

// Register serves static files and falls back to index.html for client-side routes.
func (b Bundle) Register(engine *gin.Engine) {
	fileServer := http.FileServer(http.FS(b.DistFS))
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		requestPath := c.Request.URL.Path
		if isAPIRoute(requestPath) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		cleanedPath := path.Clean("/" + requestPath)
		filePath := strings.TrimPrefix(cleanedPath, "/")
		if filePath != "" {
			fileInfo, errStat := fs.Stat(b.DistFS, filePath)
			if errStat == nil && !fileInfo.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
			if requestPath == "/assets" || strings.HasPrefix(requestPath, "/assets/") || strings.Contains(path.Base(filePath), ".") {
				c.Status(http.StatusNotFound)
				return
			}
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", b.IndexHTML)
	})
}

// isAPIRoute reports whether a path targets API endpoints.
func isAPIRoute(requestPath string) bool {
	return requestPath == "/v0" || strings.HasPrefix(requestPath, "/v0/")
}
