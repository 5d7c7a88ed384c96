package httpserver

import (
	"github.com/gin-gonic/gin"

	"ai-writing-assistant/pkg/response"
)

// getMetrics returns the aggregate usage snapshot.
// @Summary Usage metrics
// @Description Aggregate LLM usage counters for the process lifetime
// @Tags Metrics
// @Accept json
// @Produce json
// @Success 200 {object} metrics.Snapshot "Usage snapshot"
// @Router /api/v1/metrics [get]
func (srv *HTTPServer) getMetrics(c *gin.Context) {
	response.OK(c, srv.recorder.Snapshot())
}

// getModels returns the configured model catalog.
// @Summary Supported models
// @Description Models selectable in the UI, plus the configured default
// @Tags Models
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Model catalog"
// @Router /api/v1/models [get]
func (srv *HTTPServer) getModels(c *gin.Context) {
	response.OK(c, gin.H{
		"models":  srv.catalog.SupportedModels(),
		"default": srv.catalog.DefaultModel(),
	})
}
