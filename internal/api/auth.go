package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/GPT-Engineer-App/fin-track/internal/session"
)

// Request struct for the magic-link entry surface
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required"` // Email must be provided
}

// RequestLinkHandler is the entry surface: it takes an email and issues a
// one-time login link. Repeated submissions simply issue additional links.
func RequestLinkHandler(p *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MagicLinkRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}
		// Issue the link; delivery goes through the configured mailer
		if err := p.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Requested email
				"error": err.Error(), // Error message
			}).Error("Failed to issue magic link")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send magic link"})
			return
		}
		// Same message the login page always showed
		c.JSON(http.StatusOK, gin.H{"message": "Check your email for the login link!"})
	}
}

// VerifyLinkHandler consumes the emailed token and returns the new session
func VerifyLinkHandler(p *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token") // One-time token from the link
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
			return
		}
		s, err := p.VerifyMagicLink(c.Request.Context(), token)
		if err != nil {
			// Expired, replayed or malformed links all land here
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired login link"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": s}) // Token plus identity for the client to hold
	}
}

// SignOutHandler invalidates the caller's session; the provider's change
// notification resets the user's transaction state
func SignOutHandler(p *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("token") // Raw bearer token from the gate
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue"})
			return
		}
		if err := p.SignOut(c.Request.Context(), token.(string)); err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to sign out")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign out failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}
