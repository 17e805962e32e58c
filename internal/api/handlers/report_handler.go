package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func parseReportRequest(c *gin.Context) service.ReportRequest {
	return service.ReportRequest{
		Granularity: strings.TrimSpace(c.Query("period")),
		Date:        strings.TrimSpace(c.Query("date")),
		From:        strings.TrimSpace(c.Query("from")),
		To:          strings.TrimSpace(c.Query("to")),
	}
}

func (h *ReportHandler) GetLeadReport(c *gin.Context) {
	rep, err := h.service.LeadReport(c.Request.Context(), sessionFrom(c), parseReportRequest(c))
	if err != nil {
		respondError(c, "failed to build lead report", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) GetBreakdown(c *gin.Context) {
	top := 0
	if raw := strings.TrimSpace(c.Query("top")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, "invalid top", domain.NewValidationError("top", "must be a non-negative integer"))
			return
		}
		top = n
	}

	rep, err := h.service.Breakdown(c.Request.Context(), sessionFrom(c), parseReportRequest(c), strings.TrimSpace(c.Query("dimension")), top)
	if err != nil {
		respondError(c, "failed to build breakdown", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) GetAdsReport(c *gin.Context) {
	rep, err := h.service.AdsReport(c.Request.Context(), sessionFrom(c), parseReportRequest(c))
	if err != nil {
		respondError(c, "failed to build ads report", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
