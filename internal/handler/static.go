package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

// SPAFallback serves files from dir and falls back to dir/index.html for other
// GET requests so client-side routes resolve. Requests under apiPrefix, and
// everything when dir has no index.html, get a JSON 404.
func SPAFallback(dir, apiPrefix string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	_, err := os.Stat(index)
	hasIndex := dir != "" && err == nil
	files := http.Dir(dir)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if !hasIndex || !isRead || path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/") {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
			return
		}

		if f, err := files.Open(path); err == nil {
			info, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !info.IsDir() {
				c.File(filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path))))
				return
			}
		}
		c.File(index)
	}
}
