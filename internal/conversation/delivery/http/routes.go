package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods under rg.
// extra middleware (rate limiting) wraps the query route only.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, extra ...gin.HandlerFunc) {
	query := append(append([]gin.HandlerFunc{}, extra...), h.Query)
	rg.POST("/query", query...)

	conversations := rg.Group("/conversations")
	{
		conversations.GET("/:id", h.History)
		conversations.DELETE("/:id", h.Delete)
	}
}
