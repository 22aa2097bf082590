package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"conversational-recommendation/internal/observability"
	"conversational-recommendation/internal/recommend"
	"conversational-recommendation/pkg/response"
)

// Resolve godoc
// @Summary     Resolve recommendations for one conversational turn
// @Description Produces a diversified recommendation set for the session, picking the strategy tier from the current query, the session history, or catalog coverage.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
// @Param       body body resolveReq true "Turn data"
// @Success     200 {object} resolveResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/recommendations/resolve [POST]
func (h *handler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processResolveReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	start := time.Now()
	output, err := h.uc.Resolve(ctx, req.scope(), req.toInput())
	observability.RecordResolve(string(output.TierUsed), time.Since(start), err == nil)
	if err != nil {
		h.l.Errorf(ctx, "uc.Resolve: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	// The turn is remembered only once a complete result exists; a failed
	// append costs future personalization, never this response.
	if recordErr := h.uc.RecordTurn(ctx, req.scope(), recommend.RecordTurnInput{
		Query:          req.Query,
		Categories:     output.CategoriesUsed,
		RecommendedIDs: output.Items,
	}); recordErr != nil {
		h.l.Warnf(ctx, "uc.RecordTurn: turn not remembered: %v", recordErr)
	}

	response.OK(c, h.newResolveResp(output))
}

// SessionHistory godoc
// @Summary     Get a session's conversation history
// @Description Returns the stored turns for a session. Expired or unknown sessions come back with no turns.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} sessionResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Session store unavailable"
// @Router      /api/v1/recommendations/sessions/{id} [GET]
func (h *handler) SessionHistory(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processSessionScope(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.GetSessionHistory(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetSessionHistory: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newSessionResp(output))
}

// ResetSession godoc
// @Summary     Reset a session
// @Description Discards the stored conversation so the next turn starts cold.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Session store unavailable"
// @Router      /api/v1/recommendations/sessions/{id}/reset [POST]
func (h *handler) ResetSession(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processSessionScope(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.ResetSession(ctx, sc); err != nil {
		h.l.Errorf(ctx, "uc.ResetSession: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}
