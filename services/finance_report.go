package services

import (
	"sort"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/utils"

	"github.com/shopspring/decimal"
)

// FinanceReport summarises revenue from completed bookings.
type FinanceReport struct {
	CurrentMonthRevenue   decimal.Decimal `json:"currentMonthRevenue"`
	MonthGrowth           decimal.Decimal `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal `json:"currentQuarterRevenue"`
	QuarterGrowth         decimal.Decimal `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal `json:"currentYearRevenue"`
	YearGrowth            decimal.Decimal `json:"yearGrowth"`
	TopServices           []RevenueLine   `json:"topServices"`
	TopClients            []RevenueLine   `json:"topClients"`
	Barbers               []RevenueLine   `json:"barbers"`
	AverageTicket         decimal.Decimal `json:"averageTicket"`
}

// RevenueLine is one row of a revenue breakdown.
type RevenueLine struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type period struct{ start, end time.Time }

func (p period) contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.end)
}

func monthOf(t time.Time) period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return period{start, start.AddDate(0, 1, 0)}
}

func quarterOf(t time.Time) period {
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	start := time.Date(t.Year(), first, 1, 0, 0, 0, 0, t.Location())
	return period{start, start.AddDate(0, 3, 0)}
}

func yearOf(t time.Time) period {
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	return period{start, start.AddDate(1, 0, 0)}
}

// GrowthPercentage compares current with previous. Growth from nothing is
// reported as 100%.
func GrowthPercentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// BuildFinanceReport computes the report as of now. Breakdowns cover the
// current month and list at most limit rows each.
func BuildFinanceReport(bookings []models.Booking, now time.Time, limit int) FinanceReport {
	month, quarter, year := monthOf(now), quarterOf(now), yearOf(now)
	lastMonth := monthOf(month.start.AddDate(0, -1, 0))
	lastQuarter := quarterOf(quarter.start.AddDate(0, -3, 0))
	lastYear := yearOf(year.start.AddDate(-1, 0, 0))

	sums := map[period]decimal.Decimal{}
	services := map[string]*RevenueLine{}
	clients := map[string]*RevenueLine{}
	barbers := map[string]*RevenueLine{}
	total := decimal.Zero
	completed := 0

	for _, b := range bookings {
		if b.Status != models.BookingCompleted {
			continue
		}
		day, ok := utils.ParseDay(b.Date, now.Location())
		if !ok {
			continue
		}
		total = total.Add(b.Price)
		completed++
		for _, p := range []period{month, lastMonth, quarter, lastQuarter, year, lastYear} {
			if p.contains(day) {
				sums[p] = sums[p].Add(b.Price)
			}
		}
		if month.contains(day) {
			addLine(services, b.ServiceName, b.Price)
			addLine(clients, b.ClientName, b.Price)
			addLine(barbers, b.BarberName, b.Price)
		}
	}

	r := FinanceReport{
		CurrentMonthRevenue:   sums[month],
		MonthGrowth:           GrowthPercentage(sums[month], sums[lastMonth]),
		CurrentQuarterRevenue: sums[quarter],
		QuarterGrowth:         GrowthPercentage(sums[quarter], sums[lastQuarter]),
		CurrentYearRevenue:    sums[year],
		YearGrowth:            GrowthPercentage(sums[year], sums[lastYear]),
		TopServices:           topLines(services, limit),
		TopClients:            topLines(clients, limit),
		Barbers:               topLines(barbers, 0),
		AverageTicket:         decimal.Zero,
	}
	if completed > 0 {
		r.AverageTicket = total.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}
	return r
}

func addLine(lines map[string]*RevenueLine, name string, amount decimal.Decimal) {
	l, ok := lines[name]
	if !ok {
		l = &RevenueLine{Name: name, Revenue: decimal.Zero}
		lines[name] = l
	}
	l.Count++
	l.Revenue = l.Revenue.Add(amount)
}

// topLines orders by revenue; limit <= 0 keeps every line.
func topLines(lines map[string]*RevenueLine, limit int) []RevenueLine {
	out := make([]RevenueLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
