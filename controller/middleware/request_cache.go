package middleware

import (
	"mini-app-gateway/registry"

	"github.com/gin-gonic/gin"
)

// RequestCache gives each request its own registry memo so one page render
// hits the registry at most once per appId
func RequestCache(gw registry.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := registry.WithRequestCache(c.Request.Context(), registry.NewRequestCache(gw))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
