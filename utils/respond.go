package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with an {"error": message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
