package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"gorm.io/gorm"

	"github.com/yi-nology/component_promoter/biz/service/promotion"
)

// PromotionHandler exposes promotion runs and the audit journal over HTTP.
type PromotionHandler struct {
	service *promotion.Service
}

func NewPromotionHandler(service *promotion.Service) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// PromoteRequest is the JSON body of POST /api/v1/promotions.
type PromoteRequest struct {
	Components []string `json:"components"`
	DryRun     bool     `json:"dry_run"`
}

// Promote runs a promotion for the supplied component identifiers.
func (h *PromotionHandler) Promote(ctx context.Context, c *app.RequestContext) {
	var req PromoteRequest
	if err := c.BindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if len(req.Components) == 0 {
		writeBadRequest(c, errors.New("components list is required"))
		return
	}

	result := h.service.Run(ctx, req.Components, req.DryRun)
	writeOK(c, result)
}

// ListRuns returns recent journal entries.
func (h *PromotionHandler) ListRuns(ctx context.Context, c *app.RequestContext) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(c, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	runs, err := h.service.ListRuns(ctx, limit)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	writeOK(c, runs)
}

// GetRun returns one journal entry with its per-component records.
func (h *PromotionHandler) GetRun(ctx context.Context, c *app.RequestContext) {
	runID := c.Param("runID")
	run, records, err := h.service.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(c, "run not found: "+runID)
			return
		}
		writeInternalError(c, err)
		return
	}
	writeOK(c, map[string]interface{}{
		"run":     run,
		"records": records,
	})
}
