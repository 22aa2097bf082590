package http

import (
	"github.com/gin-gonic/gin"

	"conversational-recommendation/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods. The
// resolve route is the expensive one and carries the rate limit.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/resolve", mw.RateLimit(), h.Resolve)

	sessions := rg.Group("/sessions")
	{
		sessions.GET("/:id", h.SessionHistory)
		sessions.POST("/:id/reset", h.ResetSession)
	}
}
