package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request that has no richer shape
type errorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

// recordError keeps err on the context for the request log. Nil is ignored.
func recordError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	c.Error(err).SetType(gin.ErrorTypePrivate)
}

func respondError(c *gin.Context, status int, message string, err error) {
	recordError(c, err)
	c.JSON(status, errorResponse{Error: message})
}

// respondBindError answers 400 with one detail per rejected body field
func respondBindError(c *gin.Context, err error) {
	recordError(c, err)
	c.JSON(http.StatusBadRequest, errorResponse{
		Error:   "Validation failed",
		Details: ParseValidationErrors(err),
	})
}
