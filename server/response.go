package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/memoscribe/errors"
)

// RespondWithError writes err as the JSON error envelope. Errors that are
// not AppErrors are answered as a generic 500.
func RespondWithError(c *gin.Context, err error) {
	status, body := apperrors.Respond(err)
	c.JSON(status, body)
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}

// RespondOK sends a 200 response with body as-is.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
