package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingConfirmed, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.False(t, BookingStatus("LOST").IsValid())
}

func TestBookingStatus_OccupiesSlot(t *testing.T) {
	assert.False(t, BookingPending.OccupiesSlot())
	assert.True(t, BookingConfirmed.OccupiesSlot())
	assert.True(t, BookingCompleted.OccupiesSlot())
	assert.False(t, BookingCancelled.OccupiesSlot())
}

func TestBooking_StartsAt(t *testing.T) {
	b := Booking{Date: "2025-03-14", Time: "09:30"}
	at, err := b.StartsAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), at)

	_, err = Booking{Date: "14/03/2025", Time: "9h"}.StartsAt(time.UTC)
	assert.Error(t, err)
}

func TestBooking_JSONShape(t *testing.T) {
	b := Booking{
		ID:     uuid.New(),
		Price:  decimal.RequireFromString("45.50"),
		Date:   "2025-03-14",
		Time:   "10:00",
		Status: BookingPending,
	}
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "45.5", fields["price"])
	assert.Equal(t, "PENDING", fields["status"])
	assert.Contains(t, fields, "clientId")
	assert.Contains(t, fields, "barberName")
}

func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestBooking_JSONRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	in := Booking{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		ClientName:  "Ana",
		BarberID:    uuid.New(),
		BarberName:  "Rafa",
		ServiceID:   uuid.New(),
		ServiceName: "Corte",
		Price:       decimal.RequireFromString("45.5"),
		Date:        "2025-03-14",
		Time:        "10:00",
		Status:      BookingConfirmed,
		CreatedAt:   at,
		UpdatedAt:   at.Add(time.Hour),
	}

	assert.Equal(t, in, roundTrip(t, in))
}

func TestClientProfile_JSONRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	born := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	in := ClientProfile{
		ID:                    id,
		Name:                  "Ana",
		Phone:                 "+5511999990000",
		Email:                 "ana@shop.com",
		Birthday:              &born,
		Status:                ClientActive,
		LoyaltyPoints:         30,
		LifetimePoints:        130,
		TotalVisits:           1,
		TotalSpent:            decimal.NewFromInt(80),
		LastVisit:             "2025-03-14",
		MemberSince:           "2025-01-02",
		Preferences:           StringList{"fade"},
		LastBirthdayBonusYear: 2025,
		History: []Visit{{
			ID: uuid.New(), ClientID: id, BookingID: uuid.New(), Date: "2025-03-14",
			ServiceName: "Corte", BarberName: "Rafa", Price: decimal.NewFromInt(80),
		}},
		LoyaltyHistory: []LoyaltyTransaction{
			{ID: uuid.New(), ClientID: id, Type: LoyaltyEarn, Points: 130, Description: "Points earned: Corte", CreatedAt: at},
			{ID: uuid.New(), ClientID: id, Type: LoyaltyRedeem, Points: -100, Description: "Redeemed: Beard", CreatedAt: at},
		},
		Vouchers: []Voucher{{
			Code: "BP-0123456789", ClientID: id, RewardID: uuid.New(), RewardName: "Beard",
			Points: 100, IssuedAt: at, ExpiresAt: at.Add(VoucherValidity),
		}},
		CreatedAt: at,
		UpdatedAt: at,
	}

	out := roundTrip(t, in)

	assert.Equal(t, in, out)
	assert.Equal(t, 2025, out.LastBirthdayBonusYear)
	assert.Equal(t, id, out.History[0].ClientID)
}

func TestProduct_JSONRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	category := uuid.New()
	id := uuid.New()
	in := Product{
		ID:          id,
		Name:        "Pomade",
		Description: "Matte finish",
		CostPrice:   decimal.RequireFromString("20.5"),
		Price:       decimal.NewFromInt(45),
		Stock:       0,
		MinStock:    2,
		CategoryID:  &category,
		Transactions: []StockTransaction{
			{ID: uuid.New(), ProductID: id, Type: StockOut, Quantity: 5, Applied: 3, Reason: "sale", CreatedAt: at},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}

	out := roundTrip(t, in)

	assert.Equal(t, in, out)
	assert.Equal(t, 2, out.Transactions[0].Shortfall())
}

func TestClientProfile_BirthdayOn(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
	born := day(1990, time.June, 15)
	c := ClientProfile{Birthday: &born}

	assert.True(t, c.BirthdayOn(day(2025, time.June, 15)))
	assert.False(t, c.BirthdayOn(day(2025, time.June, 16)))
	assert.False(t, ClientProfile{}.BirthdayOn(day(2025, time.June, 15)))
}

func TestClientProfile_BirthdayOn_LeapDay(t *testing.T) {
	born := time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)
	c := ClientProfile{Birthday: &born}

	assert.True(t, c.BirthdayOn(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.BirthdayOn(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.BirthdayOn(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.BirthdayOn(time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)))
}

func TestClientProfile_Clone(t *testing.T) {
	born := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	c := ClientProfile{
		Birthday:    &born,
		Preferences: StringList{"fade"},
		History:     []Visit{{ServiceName: "Corte"}},
	}
	cp := c.Clone()
	cp.Preferences[0] = "beard"
	cp.History[0].ServiceName = "Barba"
	*cp.Birthday = cp.Birthday.AddDate(1, 0, 0)

	assert.Equal(t, "fade", c.Preferences[0])
	assert.Equal(t, "Corte", c.History[0].ServiceName)
	assert.Equal(t, 1990, c.Birthday.Year())
}

func TestParsePlanTier(t *testing.T) {
	cases := map[string]PlanTier{
		"ROOKIE":        PlanRookie,
		"Rookie (Free)": PlanRookie,
		"pro":           PlanPro,
		"Barber Pro":    PlanPro,
		"LEGEND":        PlanLegend,
		"Legend Shop":   PlanLegend,
		" free ":        PlanRookie,
	}
	for in, want := range cases {
		got, ok := ParsePlanTier(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"enterprise", "  ", "approved", "Professional", "Legendary", "free trial"} {
		_, ok := ParsePlanTier(in)
		assert.False(t, ok, in)
	}
}

func TestPlan_TrialExpired(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewTrialPlan(start)

	assert.Equal(t, PlanRookie, p.Tier)
	assert.False(t, p.TrialExpired(start.Add(TrialPeriod-time.Second)))
	assert.True(t, p.TrialExpired(start.Add(TrialPeriod)))

	paid := Plan{Tier: PlanPro}
	assert.False(t, paid.TrialExpired(start.AddDate(1, 0, 0)))
}

func TestProduct_IsLowStock(t *testing.T) {
	assert.True(t, Product{Stock: 3, MinStock: 3}.IsLowStock())
	assert.False(t, Product{Stock: 4, MinStock: 3}.IsLowStock())
	assert.Equal(t, 2, StockTransaction{Quantity: 5, Applied: 3}.Shortfall())
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, StringList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
}

func TestNewPrincipal(t *testing.T) {
	id := uuid.New()
	for _, role := range []Role{RoleClient, RoleBarber, RoleReceptionist, RoleAdmin} {
		p, err := NewPrincipal(role, id)
		require.NoError(t, err)
		assert.Equal(t, role, p.Role())
		assert.Equal(t, id, p.Subject())
		assert.Equal(t, role != RoleClient, IsStaff(p))
	}

	_, err := NewPrincipal("OWNER", id)
	assert.Error(t, err)
}
