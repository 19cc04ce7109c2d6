package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// Metrics counts requests by route template, so path ids do not explode label cardinality.
func (mw Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		mw.metrics.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
