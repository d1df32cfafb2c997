package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/yi-nology/component_promoter/biz/handler"
	"github.com/yi-nology/component_promoter/biz/middleware"
)

// RegisterPromotionRoutes configures HTTP routes for promotion APIs.
func RegisterPromotionRoutes(r *server.Hertz, h *handler.PromotionHandler) {
	if h == nil {
		return
	}

	v1 := r.Group("/api/v1")

	promotions := v1.Group("/promotions")
	promotions.POST("", append(middleware.PromoteLockMw(), h.Promote)...)

	runs := v1.Group("/runs")
	runs.GET("", h.ListRuns)
	runs.GET("/:runID", h.GetRun)

	r.GET("/ping", handler.Ping)
}
