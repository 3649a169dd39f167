package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardController struct {
	Bookings  *services.BookingLedger
	Loyalty   *services.LoyaltyEngine
	Inventory *services.InventoryLedger
	Insights  *services.InsightService
	Location  *services.LocationService
	Now       func() time.Time
}

type DashboardOverview struct {
	TotalClients      int                         `json:"totalClients"`
	TodayBookings     int                         `json:"todayBookings"`
	PendingBookings   int                         `json:"pendingBookings"`
	MonthlyRevenue    decimal.Decimal             `json:"monthlyRevenue"`
	Metrics           services.PerformanceMetrics `json:"metrics"`
	Inventory         models.InventorySummary     `json:"inventory"`
	UpcomingBirthdays []UpcomingEvent             `json:"upcomingBirthdays"`
}

type UpcomingEvent struct {
	Name string `json:"name"`
	Date string `json:"date"` // "Today", "Tomorrow", "3 days"
}

type MarketingCopyInput struct {
	CampaignType   string `json:"campaignType" binding:"required"`
	TargetAudience string `json:"targetAudience" binding:"required"`
}

func (dc *DashboardController) now() time.Time {
	if dc.Now != nil {
		return dc.Now()
	}
	return time.Now()
}

// GetDashboardOverview returns the dashboard summary
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	now := dc.now()
	today := now.Format(models.BookingDateLayout)
	month := now.Format("2006-01")

	bookings := dc.Bookings.List(ctx, services.BookingFilter{})
	clients := dc.Loyalty.ListClients(ctx)

	overview := DashboardOverview{
		TotalClients:      len(clients),
		MonthlyRevenue:    decimal.Zero,
		Metrics:           services.MetricsFromBookings(bookings, clients, now),
		Inventory:         dc.Inventory.Summary(ctx),
		UpcomingBirthdays: upcomingBirthdays(clients, now, 7),
	}
	for _, b := range bookings {
		if b.Date == today && b.Status != models.BookingCancelled {
			overview.TodayBookings++
		}
		if b.Status == models.BookingPending {
			overview.PendingBookings++
		}
		if b.Status == models.BookingCompleted && len(b.Date) >= 7 && b.Date[:7] == month {
			overview.MonthlyRevenue = overview.MonthlyRevenue.Add(b.Price)
		}
	}

	c.JSON(http.StatusOK, overview)
}

// GetInsights asks the insight generator about the given metrics, or about
// the last seven days when the body is empty.
func (dc *DashboardController) GetInsights(c *gin.Context) {
	var metrics services.PerformanceMetrics
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&metrics); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	} else {
		ctx := c.Request.Context()
		metrics = services.MetricsFromBookings(
			dc.Bookings.List(ctx, services.BookingFilter{}),
			dc.Loyalty.ListClients(ctx),
			dc.now(),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":  metrics,
		"insights": dc.Insights.Insights(c.Request.Context(), metrics),
	})
}

// GetMarketingCopy generates a campaign message
func (dc *DashboardController) GetMarketingCopy(c *gin.Context) {
	var input MarketingCopyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	text := dc.Insights.MarketingCopy(c.Request.Context(), input.CampaignType, input.TargetAudience)
	c.JSON(http.StatusOK, gin.H{"message": text})
}

// GetLocation resolves ?lat&lng to a city and state.
func (dc *DashboardController) GetLocation(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	c.JSON(http.StatusOK, dc.Location.Locate(c.Request.Context(), lat, lng))
}

func upcomingBirthdays(clients []models.ClientProfile, now time.Time, days int) []UpcomingEvent {
	type hit struct {
		name string
		in   int
	}
	var hits []hit
	for _, cl := range clients {
		if cl.Birthday == nil || cl.Status != models.ClientActive {
			continue
		}
		for d := 0; d < days; d++ {
			if cl.BirthdayOn(now.AddDate(0, 0, d)) {
				hits = append(hits, hit{name: cl.Name, in: d})
				break
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].in < hits[j].in })

	events := make([]UpcomingEvent, 0, len(hits))
	for _, h := range hits {
		label := strconv.Itoa(h.in) + " days"
		switch h.in {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		}
		events = append(events, UpcomingEvent{Name: h.name, Date: label})
	}
	return events
}
