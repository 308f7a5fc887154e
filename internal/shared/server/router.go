package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/pipeline"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/uploads"
	"coverletter-backend/internal/workflow"
)

// RouterDeps carries the handlers and stores the router wires up.
type RouterDeps struct {
	Config          config.Config
	PipelineHandler *pipeline.Handler
	UploadsHandler  *uploads.Handler
	WorkflowHandler *workflow.Handler
	Store           object.ObjectStore
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("")
	deps.PipelineHandler.RegisterRoutes(root)
	deps.UploadsHandler.RegisterRoutes(root)
	deps.WorkflowHandler.RegisterRoutes(root)

	// Local object stores publish URLs under /files; S3 serves its own.
	if deps.Config.ObjectStoreType == "local" {
		r.GET("/files/*key", serveFile(deps.Store))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
