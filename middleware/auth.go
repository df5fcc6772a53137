package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthRequired is a simple middleware to check the session. Clients that
// cannot hold a cookie authenticate with a bearer token instead, which
// the handlers validate through JWT_decoder.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("Email")
	if user == nil && c.GetHeader("Authorization") == "" {
		// Abort the request with the appropriate error code
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// Continue down the chain to handler etc
	c.Next()
}
