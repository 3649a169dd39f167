package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberpro-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	insights []string
	copy     string
	err      error
}

func (s stubGenerator) Analyze(context.Context, PerformanceMetrics) ([]string, error) {
	return s.insights, s.err
}

func (s stubGenerator) MarketingCopy(context.Context, string, string) (string, error) {
	return s.copy, s.err
}

func TestInsightService_Insights_Fallbacks(t *testing.T) {
	ctx := context.Background()
	m := PerformanceMetrics{}

	assert.Equal(t, FallbackInsights, NewInsightService(nil).Insights(ctx, m))
	assert.Equal(t, FallbackInsights, NewInsightService(stubGenerator{err: errors.New("boom")}).Insights(ctx, m))
	assert.Equal(t, FallbackInsights, NewInsightService(stubGenerator{insights: []string{" ", ""}}).Insights(ctx, m))

	got := NewInsightService(stubGenerator{insights: []string{" Push Friday slots "}}).Insights(ctx, m)
	assert.Equal(t, []string{"Push Friday slots"}, got)
}

func TestInsightService_MarketingCopy_Fallbacks(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, fallbackMarketingCopy, NewInsightService(nil).MarketingCopy(ctx, "promo", "all"))
	assert.Equal(t, fallbackMarketingCopy, NewInsightService(stubGenerator{err: errors.New("boom")}).MarketingCopy(ctx, "promo", "all"))
	assert.Equal(t, "Come back!", NewInsightService(stubGenerator{copy: "Come back!"}).MarketingCopy(ctx, "promo", "all"))
}

func TestHTTPInsightGenerator_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/insights", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var m PerformanceMetrics
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, 3, m.NoShows)

		_ = json.NewEncoder(w).Encode(map[string]any{"insights": []string{"a", "b"}})
	}))
	defer srv.Close()

	g := NewHTTPInsightGenerator(srv.URL+"/", "key", time.Second)
	got, err := g.Analyze(context.Background(), PerformanceMetrics{NoShows: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestHTTPInsightGenerator_ErrorStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewHTTPInsightGenerator(srv.URL, "", time.Second)
	_, err := g.MarketingCopy(context.Background(), "promo", "all")
	assert.Error(t, err)

	assert.Equal(t, fallbackMarketingCopy, NewInsightService(g).MarketingCopy(context.Background(), "promo", "all"))
}

func TestMetricsFromBookings(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{Date: "2025-03-14", Status: models.BookingCompleted, Price: decimal.NewFromInt(80)},
		{Date: "2025-03-08", Status: models.BookingCompleted, Price: decimal.NewFromInt(45)},
		{Date: "2025-03-07", Status: models.BookingCompleted, Price: decimal.NewFromInt(1000)},
		{Date: "2025-03-10", Status: models.BookingCancelled, Price: decimal.NewFromInt(45)},
		{Date: "2025-03-12", Status: models.BookingPending, Price: decimal.NewFromInt(45)},
	}
	clients := []models.ClientProfile{
		{MemberSince: "2025-03-13"},
		{MemberSince: "2024-12-01"},
	}

	m := MetricsFromBookings(bookings, clients, now)

	assert.True(t, m.WeeklyRevenue.Equal(decimal.NewFromInt(125)), m.WeeklyRevenue.String())
	assert.True(t, m.AverageTicket.Equal(decimal.RequireFromString("62.5")), m.AverageTicket.String())
	assert.Equal(t, 1, m.NoShows)
	assert.Equal(t, 1, m.NewClients)
}

func TestLocationService_Locate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`{"address":{"town":"Campinas","state":"São Paulo","ISO3166-2-lvl4":"BR-SP"}}`))
	}))
	defer srv.Close()

	s := NewLocationService(NewHTTPGeocoder(srv.URL, time.Second))
	assert.Equal(t, Location{City: "Campinas", State: "SP"}, s.Locate(context.Background(), -22.9, -47.06))

	assert.Equal(t, DefaultLocation, s.Locate(context.Background(), 120, 0))
	assert.Equal(t, DefaultLocation, NewLocationService(nil).Locate(context.Background(), -22.9, -47.06))
}

func TestLocationService_Locate_GeocoderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewLocationService(NewHTTPGeocoder(srv.URL, time.Second))
	assert.Equal(t, DefaultLocation, s.Locate(context.Background(), -23.5, -46.6))
}
