package http

import (
	"github.com/gin-gonic/gin"

	"conversational-recommendation/internal/recommend"
	"conversational-recommendation/pkg/log"
)

// Handler is the public interface for the recommendation HTTP delivery layer.
type Handler interface {
	Resolve(c *gin.Context)
	SessionHistory(c *gin.Context)
	ResetSession(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc recommend.UseCase
}

// New creates a new HTTP handler for the recommendation domain.
func New(l log.Logger, uc recommend.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
