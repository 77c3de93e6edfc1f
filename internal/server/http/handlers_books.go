package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type bookRequest struct {
	Title   string `json:"title" binding:"required"`
	Author  string `json:"author"`
	Details string `json:"details"`
}

func (s *HTTPServer) bookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, common.ErrTenantRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "no tenant in token"})
	default:
		s.logger.Error(c.Request.Context(), "book operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bookIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *HTTPServer) listBooks(c *gin.Context) {
	list, err := s.books.List(c.Request.Context())
	if err != nil {
		s.bookError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) getBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	book, err := s.books.Get(c.Request.Context(), id)
	if err != nil {
		s.bookError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *HTTPServer) createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book := &models.Book{Title: req.Title, Author: req.Author, Details: req.Details}
	if claims, ok := claimsFromContext(c); ok {
		if ownerID, err := claims.UserID(); err == nil {
			book.OwnerID = ownerID
		}
	}

	created, err := s.books.Create(c.Request.Context(), book)
	if err != nil {
		s.bookError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *HTTPServer) updateBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.books.Update(c.Request.Context(), &models.Book{
		ID: id, Title: req.Title, Author: req.Author, Details: req.Details,
	})
	if err != nil {
		s.bookError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *HTTPServer) deleteBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	if err := s.books.Delete(c.Request.Context(), id); err != nil {
		s.bookError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
