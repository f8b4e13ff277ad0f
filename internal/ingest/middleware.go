package ingest

import (
	"net/http"

	"salon_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// APIKeyAuthMiddleware validates the X-API-Key header and sets the salon
// context on the gin context.
func APIKeyAuthMiddleware(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		key, err := repo.GetByHash(c.Request.Context(), HashKey(apiKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		httpkit.SetSalonID(c, key.SalonID)
		c.Set("ingestKeyID", key.ID)
		c.Next()
	}
}
