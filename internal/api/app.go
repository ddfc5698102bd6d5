package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
)

// AppInfoHandler is the stateless header of the app: the title, the preset
// categories the form offers and where sign-out lives. No state, no failure
// modes.
func AppInfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":      "Fin-Track",          // Application title
			"categories": domain.Categories(),  // Preset form categories
			"sign_out":   "/auth/signout",      // Sign-out action
		})
	}
}
