package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/irarb/internal/domain/dto"
)

// ErrorHandler turns errors attached with c.Error into a JSON
// dto.ErrorResponse when the handler did not write a response itself.
// The status defaults to 500 unless the handler already set one.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	last := c.Errors.Last()
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes a dto.ErrorResponse.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
