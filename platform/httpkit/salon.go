package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// salonIDKey is the gin context key under which authentication middleware
// stores the salon resolved from the request's credentials.
const salonIDKey = "salonID"

// SetSalonID stores the authenticated salon on the request context.
func SetSalonID(c *gin.Context, id uuid.UUID) {
	c.Set(salonIDKey, id)
}

// GetSalonID returns the authenticated salon, if any.
func GetSalonID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(salonIDKey)
	if !ok {
		return uuid.UUID{}, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// MustGetSalonID returns the authenticated salon or writes a 401 response.
func MustGetSalonID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := GetSalonID(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
