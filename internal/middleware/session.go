package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework

	"github.com/GPT-Engineer-App/fin-track/internal/session"
)

// SessionGate decides per request whether the caller is inside the app:
// a resolvable session passes through with its identity in the context,
// anything else is turned away to the entry surface. Any provider failure
// reads as "no session".
func SessionGate(p *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the bearer token
		s, err := p.Current(c.Request.Context(), tokenStr)    // Resolve the current session
		if err != nil {
			// No session resolves to the entry surface
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue"})
			return
		}
		c.Set("session", s)      // Identity for the handlers downstream
		c.Set("token", tokenStr) // Raw token, needed by sign-out
		c.Next()                 // Proceed to the next handler
	}
}
