package http

import (
	"github.com/gin-gonic/gin"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend"
)

// processResolveReq binds and validates the resolve request body.
func (h *handler) processResolveReq(c *gin.Context) (resolveReq, error) {
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processSessionScope extracts the session scope from the URI param.
func (h *handler) processSessionScope(c *gin.Context) (model.Scope, error) {
	id := c.Param("id")
	if id == "" {
		return model.Scope{}, recommend.ErrSessionIDRequired
	}
	return model.Scope{SessionID: id}, nil
}
