package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/utils"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FallbackInsights is served whenever the generator is unavailable.
var FallbackInsights = []string{
	"Focus on increasing recurring clients",
	"Review commission structures",
	"Promote beard services",
}

const fallbackMarketingCopy = "Unable to generate message at this time."

// PerformanceMetrics is the aggregate sent to the insight generator.
type PerformanceMetrics struct {
	WeeklyRevenue decimal.Decimal `json:"weeklyRevenue"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	NewClients    int             `json:"newClients"`
	NoShows       int             `json:"noShows"`
}

// InsightGenerator turns metrics into short observations.
type InsightGenerator interface {
	Analyze(ctx context.Context, m PerformanceMetrics) ([]string, error)
	MarketingCopy(ctx context.Context, campaign, audience string) (string, error)
}

// HTTPInsightGenerator talks to a JSON text-generation endpoint.
type HTTPInsightGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPInsightGenerator returns a generator calling the insight API at baseURL.
func NewHTTPInsightGenerator(baseURL, apiKey string, timeout time.Duration) *HTTPInsightGenerator {
	return &HTTPInsightGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Analyze asks the remote model for short performance tips.
func (g *HTTPInsightGenerator) Analyze(ctx context.Context, m PerformanceMetrics) ([]string, error) {
	var out struct {
		Insights []string `json:"insights"`
	}
	if err := g.post(ctx, "/insights", m, &out); err != nil {
		return nil, err
	}
	return out.Insights, nil
}

// MarketingCopy asks the remote model for a campaign message.
func (g *HTTPInsightGenerator) MarketingCopy(ctx context.Context, campaign, audience string) (string, error) {
	req := map[string]string{"campaignType": campaign, "targetAudience": audience}
	var out struct {
		Text string `json:"text"`
	}
	if err := g.post(ctx, "/marketing-copy", req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (g *HTTPInsightGenerator) post(ctx context.Context, path string, body, into any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("insight generator returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

// InsightService never fails: generator errors degrade to canned answers.
type InsightService struct {
	generator InsightGenerator
}

// NewInsightService accepts a nil generator and then always falls back.
func NewInsightService(generator InsightGenerator) *InsightService {
	return &InsightService{generator: generator}
}

// Insights returns the generator's tips, or the built-in ones when it fails
// or returns nothing.
func (s *InsightService) Insights(ctx context.Context, m PerformanceMetrics) []string {
	if s.generator == nil {
		return append([]string(nil), FallbackInsights...)
	}
	insights, err := s.generator.Analyze(ctx, m)
	if err != nil {
		log.Warn().Err(err).Msg("insight generator failed, using fallback")
		return append([]string(nil), FallbackInsights...)
	}
	out := insights[:0:0]
	for _, i := range insights {
		if i = strings.TrimSpace(i); i != "" {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), FallbackInsights...)
	}
	return out
}

// MarketingCopy falls back to a canned message when the generator fails.
func (s *InsightService) MarketingCopy(ctx context.Context, campaign, audience string) string {
	if s.generator == nil {
		return fallbackMarketingCopy
	}
	text, err := s.generator.MarketingCopy(ctx, campaign, audience)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Warn().Err(err).Msg("marketing copy generation failed")
		}
		return fallbackMarketingCopy
	}
	return text
}

// MetricsFromBookings summarises the seven days ending at now. Cancelled
// bookings count as no-shows.
func MetricsFromBookings(bookings []models.Booking, clients []models.ClientProfile, now time.Time) PerformanceMetrics {
	inWeek := func(date string) bool {
		day, ok := utils.ParseDay(date, now.Location())
		if !ok {
			return false
		}
		d := utils.DaysBetween(day, now)
		return d >= 0 && d < 7
	}

	m := PerformanceMetrics{WeeklyRevenue: decimal.Zero, AverageTicket: decimal.Zero}
	completed := 0
	for _, b := range bookings {
		if !inWeek(b.Date) {
			continue
		}
		switch b.Status {
		case models.BookingCompleted:
			m.WeeklyRevenue = m.WeeklyRevenue.Add(b.Price)
			completed++
		case models.BookingCancelled:
			m.NoShows++
		}
	}
	if completed > 0 {
		m.AverageTicket = m.WeeklyRevenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}
	for _, c := range clients {
		if inWeek(c.MemberSince) {
			m.NewClients++
		}
	}
	return m
}
