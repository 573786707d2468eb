package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vendido/internal/service"
)

// ReportHandler exposes the digest and reservation mapping operations.
type ReportHandler struct {
	digest service.DigestService
	mapper service.MapperService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(digest service.DigestService, mapper service.MapperService) *ReportHandler {
	return &ReportHandler{digest: digest, mapper: mapper}
}

// PreviewDigest handles GET /api/v1/digest/preview. It builds the digest for
// the requested window (yesterday by default) without recording refs or
// sending mail.
func (h *ReportHandler) PreviewDigest(c *gin.Context) {
	window := c.DefaultQuery("window", service.WindowYesterday)
	switch window {
	case service.WindowYesterday, service.WindowMonthToDate, service.WindowYearToDate:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_WINDOW", "window must be one of yesterday, mtd, ytd")
		return
	}

	summary, err := h.digest.Preview(c.Request.Context(), time.Now(), window)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// RunDigest handles POST /api/v1/digest/run. It builds the digest, updates
// the ledger and sends the email.
func (h *ReportHandler) RunDigest(c *gin.Context) {
	summary, err := h.digest.Run(c.Request.Context(), time.Now())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// GetReservation handles GET /api/v1/orders/:id/reservation.
func (h *ReportHandler) GetReservation(c *gin.Context) {
	res, err := h.mapper.MapByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	if c.Query("send") == "true" {
		if err := h.mapper.SendReservation(c.Request.Context(), res); err != nil {
			HandleError(c, err)
			return
		}
	}
	RespondOK(c, gin.H{"header": res.Header, "rows": res.Rows})
}

// ListRecentReservations handles GET /api/v1/orders/recent.
func (h *ReportHandler) ListRecentReservations(c *gin.Context) {
	minutes, err := strconv.Atoi(c.DefaultQuery("minutes", "1440"))
	if err != nil || minutes <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_MINUTES", "minutes must be a positive integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return
	}

	reservations, err := h.mapper.MapRecent(c.Request.Context(), minutes, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reservations)
}
