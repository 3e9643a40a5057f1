package ui

import (
	"github.com/gin-gonic/gin"

	"teamtools/internal/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// renderError writes {"error": {"code", "message"}} with a status derived from the code
func (s *Server) renderError(c *gin.Context, err error) {
	code := errors.Classify(err)
	status := errors.HTTPStatus(code)
	if status >= 500 {
		s.logger.Error("request failed: %v", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: err.Error()}})
}

// bindJSON decodes the body into dst, rendering an INVALID_INPUT error on failure
func (s *Server) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.renderError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return false
	}
	return true
}
