package server

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/storage/object"
)

// serveFile streams a stored object back to the client. It backs the public
// URLs the local object store hands out.
func serveFile(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file key is required", nil)
			return
		}

		body, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		defer body.Close()

		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, body)
	}
}
