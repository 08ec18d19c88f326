package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusSuccess is the envelope status for successful operations.
const StatusSuccess = "SUCCESS"

// Success sends a 200 response carrying the payload fields alongside
// {"status": "SUCCESS"}.
func Success(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(payload))
}

// Created sends a 201 response with the same envelope shape.
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(payload))
}

func envelope(payload gin.H) gin.H {
	body := gin.H{"status": StatusSuccess}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// Error sends an error response with a machine-readable status code.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"status":  code,
		"message": message,
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, "CONFLICT", message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
