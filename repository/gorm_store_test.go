package repository

import (
	"context"
	"testing"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/services"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := NewGormStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func testClient(at time.Time) *models.ClientProfile {
	id := uuid.New()
	return &models.ClientProfile{
		ID:          id,
		Name:        "Ana",
		Phone:       "+5511999990000",
		Status:      models.ClientActive,
		TotalSpent:  decimal.NewFromInt(80),
		TotalVisits: 1,
		MemberSince: "2025-01-02",
		Preferences: models.StringList{"fade"},
		History: []models.Visit{{
			ID: uuid.New(), ClientID: id, BookingID: uuid.New(), Date: "2025-03-10",
			ServiceName: "Corte", BarberName: "Rafa", Price: decimal.NewFromInt(80),
		}},
		LoyaltyHistory: []models.LoyaltyTransaction{{
			ID: uuid.New(), ClientID: id, Type: models.LoyaltyEarn, Points: 80, Description: "Points earned: Corte", CreatedAt: at,
		}},
		LoyaltyPoints:         80,
		LifetimePoints:        80,
		LastBirthdayBonusYear: 2024,
		CreatedAt:             at,
		UpdatedAt:             at,
	}
}

func TestGormStore_SaveClient_UpsertsChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := testClient(at)

	require.NoError(t, store.SaveClient(ctx, c))

	c.TotalVisits = 2
	c.History = append(c.History, models.Visit{
		ID: uuid.New(), ClientID: c.ID, BookingID: uuid.New(), Date: "2025-03-12",
		ServiceName: "Barba", BarberName: "Leo", Price: decimal.NewFromInt(40),
	})
	c.Vouchers = append(c.Vouchers, models.Voucher{
		Code: "BP-0123456789", ClientID: c.ID, RewardID: uuid.New(), RewardName: "Beard",
		Points: 50, IssuedAt: at, ExpiresAt: at.Add(models.VoucherValidity),
	})
	require.NoError(t, store.SaveClient(ctx, c))

	clients, err := store.LoadClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	got := clients[0]
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, 2, got.TotalVisits)
	assert.EqualValues(t, 80, got.LoyaltyPoints)
	assert.Equal(t, 2024, got.LastBirthdayBonusYear)
	assert.Equal(t, models.StringList{"fade"}, got.Preferences)
	require.Len(t, got.History, 2)
	assert.Equal(t, "2025-03-10", got.History[0].Date)
	assert.Equal(t, "2025-03-12", got.History[1].Date)
	assert.True(t, got.History[1].Price.Equal(decimal.NewFromInt(40)))
	assert.Len(t, got.LoyaltyHistory, 1)
	require.Len(t, got.Vouchers, 1)
	assert.Equal(t, "BP-0123456789", got.Vouchers[0].Code)
}

func TestGormStore_SaveClient_VisitBookingIsUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := testClient(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveClient(ctx, c))

	dup := c.History[0]
	dup.ID = uuid.New()
	c.History = append(c.History, dup)

	assert.Error(t, store.SaveClient(ctx, c))
}

func TestGormStore_Bookings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	b := &models.Booking{
		ID: uuid.New(), ClientID: uuid.New(), BarberID: uuid.New(), ServiceID: uuid.New(),
		Price: decimal.RequireFromString("45.5"), Date: "2025-03-10", Time: "10:00", Status: models.BookingPending,
	}
	require.NoError(t, store.SaveBooking(ctx, b))

	b.Status = models.BookingConfirmed
	require.NoError(t, store.SaveBooking(ctx, b))

	bookings, err := store.LoadBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingConfirmed, bookings[0].Status)
	assert.True(t, bookings[0].Price.Equal(decimal.RequireFromString("45.5")))

	require.NoError(t, store.DeleteBooking(ctx, b.ID))
	bookings, err = store.LoadBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestGormStore_Products(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &models.Product{
		ID: uuid.New(), Name: "Pomade", CostPrice: decimal.NewFromInt(20), Price: decimal.NewFromInt(45),
		Stock: 2, MinStock: 3, CreatedAt: at, UpdatedAt: at,
	}
	p.Transactions = []models.StockTransaction{
		{ID: uuid.New(), ProductID: p.ID, Type: models.StockOut, Quantity: 5, Applied: 3, CreatedAt: at},
	}
	require.NoError(t, store.SaveProduct(ctx, p))

	products, err := store.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].Transactions, 1)
	assert.Equal(t, 2, products[0].Transactions[0].Shortfall())

	require.NoError(t, store.DeleteProduct(ctx, p.ID))
	products, err = store.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	var left int64
	require.NoError(t, store.db.Model(&models.StockTransaction{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestGormStore_ReplaceRules(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rules := services.DefaultLoyaltyRules()
	for i := range rules {
		rules[i].ID = uuid.New()
	}
	require.NoError(t, store.ReplaceRules(ctx, rules))
	require.NoError(t, store.ReplaceRules(ctx, rules[:1]))

	loaded, err := store.LoadRules(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, rules[0].ID, loaded[0].ID)
}

func TestGormStore_Shop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	shop, err := store.LoadShop(ctx)
	require.NoError(t, err)
	assert.Nil(t, shop)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveShop(ctx, &models.Shop{ID: uuid.New(), Name: "BarberPro", Plan: models.NewTrialPlan(now)}))

	shop, err = store.LoadShop(ctx)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, models.PlanRookie, shop.Plan.Tier)
	require.NotNil(t, shop.Plan.TrialExpires)
	assert.True(t, shop.Plan.TrialExpires.Equal(now.Add(models.TrialPeriod)))
}

func TestGormStore_LoyaltyEngineSurvivesRestart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	engine := services.NewLoyaltyEngine(store)
	require.NoError(t, engine.SeedDefaults(ctx))
	client, err := engine.RegisterClient(ctx, services.RegisterClientInput{Name: "Ana"})
	require.NoError(t, err)
	booking := models.Booking{ID: uuid.New(), ClientID: client.ID, Price: decimal.NewFromInt(80), Date: "2025-03-10"}
	require.NoError(t, engine.RecordVisit(ctx, booking))

	restored := services.NewLoyaltyEngine(store)
	require.NoError(t, restored.Restore(ctx))
	require.NoError(t, restored.RecordVisit(ctx, booking))

	got, err := restored.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalVisits)
	assert.EqualValues(t, 80, got.LoyaltyPoints)
	assert.Len(t, got.History, 1)
}
