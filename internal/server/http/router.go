package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.refresh)

	authorized := api.Group("")
	authorized.Use(s.authMiddleware())
	authorized.POST("/auth/revoke", s.revoke)
	authorized.POST("/auth/revoke-all", s.revokeAll)

	authorized.GET("/books", s.listBooks)
	authorized.POST("/books", s.createBook)
	authorized.GET("/books/:id", s.getBook)
	authorized.PUT("/books/:id", s.updateBook)
	authorized.DELETE("/books/:id", s.deleteBook)

	admin := authorized.Group("/admin")
	admin.Use(s.requireRole("admin"))
	admin.POST("/cleanup/schedule", s.scheduleCleanup)
	admin.DELETE("/cleanup/schedule", s.cancelCleanup)
	admin.POST("/cleanup/run", s.runCleanup)

	return r
}
