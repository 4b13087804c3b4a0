package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"monthly-club.backend/pkg/logger"
)

// quietPaths are polled by infrastructure and not worth a log line each
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggerMiddleware logs one line per request. The matched route is logged
// instead of the raw URL so ids and query strings stay out of the logs.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if quietPaths[route] {
			return
		}
		if route == "" {
			route = "unmatched"
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
