package controllers

import (
	"net/http"
	"strconv"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/services"

	"github.com/gin-gonic/gin"
)

// ReportController handles the finance reports
type ReportController struct {
	Bookings *services.BookingLedger
	Now      func() time.Time
}

// GetReportAnalytics returns revenue totals, growth and the month's top
// services, clients and barbers. ?limit caps the top lists (default 4).
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	limit := 4
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	now := time.Now()
	if rc.Now != nil {
		now = rc.Now()
	}

	bookings := rc.Bookings.ListByStatus(c.Request.Context(), models.BookingCompleted)
	c.JSON(http.StatusOK, services.BuildFinanceReport(bookings, now, limit))
}
