package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

// JSON sends the payload as the response body. Consumers of this API read
// entities and arrays directly, so there is no wrapping envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends the typed error as {code, message, status} with a matching
// HTTP status code.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, appErr)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
