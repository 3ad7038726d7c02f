package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wildvision/observation-store-service/internal/models"
)

// APIKeyMiddleware guards the observation routes with a single shared
// X-API-Key. Requests with a missing or mismatched key are rejected before
// any handler runs.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if apiKey == "" || apiKey != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.StatusMessage{
				Status:  "error",
				Message: "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
