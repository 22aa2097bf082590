package http

import (
	"errors"
	"time"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend"
)

// --- Request DTOs ---

type resolveReq struct {
	SessionID  string   `json:"session_id" binding:"required"`
	Query      string   `json:"query"      binding:"max=2000"`
	N          int      `json:"n"`
	Language   string   `json:"language"   binding:"omitempty,max=8"`
	UserID     string   `json:"user_id"`
	Exclusions []string `json:"exclusions"`
}

func (r resolveReq) validate() error {
	if r.N < 0 {
		return errors.New("n must not be negative")
	}
	return nil
}

func (r resolveReq) scope() model.Scope {
	return model.Scope{
		SessionID: r.SessionID,
		UserID:    r.UserID,
		Language:  r.Language,
	}
}

func (r resolveReq) toInput() recommend.ResolveInput {
	return recommend.ResolveInput{
		Query:              r.Query,
		N:                  r.N,
		ExplicitExclusions: r.Exclusions,
	}
}

// --- Response DTOs ---

type resolveResp struct {
	Items            []string `json:"items"`
	TierUsed         string   `json:"tier_used"`
	CategoriesUsed   []string `json:"categories_used"`
	ExcludedCount    int      `json:"excluded_count"`
	HistoryAvailable bool     `json:"history_available"`
}

func (h *handler) newResolveResp(out recommend.ResolveOutput) resolveResp {
	items := out.Items
	if items == nil {
		items = []string{}
	}
	categories := out.CategoriesUsed
	if categories == nil {
		categories = []string{}
	}
	return resolveResp{
		Items:            items,
		TierUsed:         string(out.TierUsed),
		CategoriesUsed:   categories,
		ExcludedCount:    out.ExcludedCount,
		HistoryAvailable: out.HistoryAvailable,
	}
}

type turnResp struct {
	Number         int       `json:"number"`
	Query          string    `json:"query"`
	Categories     []string  `json:"categories"`
	RecommendedIDs []string  `json:"recommended_ids"`
	Timestamp      time.Time `json:"timestamp"`
}

type sessionResp struct {
	ID        string     `json:"id"`
	Turns     []turnResp `json:"turns"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (h *handler) newSessionResp(out recommend.SessionOutput) sessionResp {
	turns := make([]turnResp, 0, len(out.Session.Turns))
	for _, t := range out.Session.Turns {
		turns = append(turns, turnResp{
			Number:         t.Number,
			Query:          t.Query,
			Categories:     t.Categories,
			RecommendedIDs: t.RecommendedIDs,
			Timestamp:      t.Timestamp,
		})
	}
	return sessionResp{
		ID:        out.Session.ID,
		Turns:     turns,
		CreatedAt: out.Session.CreatedAt,
		UpdatedAt: out.Session.UpdatedAt,
	}
}
