package handlers

import (
	"net/http"

	"github.com/Prince5598/Cloud-Storage/middleware"

	"github.com/gin-gonic/gin"
)

type RouteOptions struct {
	// Auth guards every file route.
	Auth gin.HandlerFunc
	// LocalAuth mounts register and login.
	LocalAuth bool
	// Metrics is served at /api/metrics when set.
	Metrics http.Handler
	// BlobDir is served at /blobs when set.
	BlobDir string
}

func SetupRoutes(r *gin.Engine, opts RouteOptions) {
	r.Use(middleware.CORSMiddleware(), middleware.RequestLogger())

	if opts.BlobDir != "" {
		r.Static("/blobs", opts.BlobDir)
	}

	api := r.Group("/api")
	api.GET("/health", HealthCheck)
	if opts.Metrics != nil {
		api.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	if opts.LocalAuth {
		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
		}
	}

	protected := api.Group("")
	protected.Use(opts.Auth)
	{
		protected.GET("/auth/profile", GetProfile)

		protected.POST("/folders", CreateFolder)
		protected.POST("/folders/create", CreateFolder)

		protected.GET("/files", ListFiles)
		protected.POST("/files/upload", UploadFile)
		protected.DELETE("/files/trash", EmptyTrash)
		protected.DELETE("/files/empty-trash", EmptyTrash)
		protected.GET("/files/:id", GetFile)
		protected.GET("/files/:id/breadcrumbs", GetBreadcrumbs)
		protected.PATCH("/files/:id/star", ToggleStar)
		protected.PATCH("/files/:id/trash", ToggleTrash)
		protected.PATCH("/files/:id/move", MoveFile)
		protected.DELETE("/files/:id", DeleteFile)
		protected.DELETE("/files/:id/delete", DeleteFile)
	}
}
