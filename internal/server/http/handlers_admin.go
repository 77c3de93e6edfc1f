package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	CronExpression string `json:"cron_expression" binding:"required"`
}

func (s *HTTPServer) scheduleCleanup(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.scheduler.Schedule(c.Request.Context(), req.CronExpression)
	if err != nil {
		// an expression the job runner rejects is a caller mistake
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheduled": ok})
}

func (s *HTTPServer) cancelCleanup(c *gin.Context) {
	ok, err := s.scheduler.Cancel(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "cleanup cancel failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": ok})
}

func (s *HTTPServer) runCleanup(c *gin.Context) {
	ok, err := s.scheduler.Enqueue(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "cleanup enqueue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"enqueued": ok})
}
