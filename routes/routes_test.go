package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberpro-backend/controllers"
	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "routes-test-secret"

type testApp struct {
	router  http.Handler
	shop    *services.ShopSettings
	loyalty *services.LoyaltyEngine
	staff   *services.StaffRoster
	catalog *services.Catalog
}

func setupApp(t *testing.T, tier models.PlanTier) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := services.NopStore{}
	opts := []services.Option{services.WithHashCost(bcrypt.MinCost)}

	shop := services.NewShopSettings(store)
	require.NoError(t, shop.Restore(ctx, "BarberPro"))
	if tier != models.PlanRookie {
		_, err := shop.ChangePlan(ctx, tier)
		require.NoError(t, err)
	}
	gate := services.NewPlanGate(opts...)
	staff := services.NewStaffRoster(store, gate, opts...)
	catalog := services.NewCatalog(store)
	loyalty := services.NewLoyaltyEngine(store)
	require.NoError(t, loyalty.SeedDefaults(ctx))
	bookings := services.NewBookingLedger(store, loyalty, staff, catalog, loyalty)
	inventory := services.NewInventoryLedger(store)

	r := SetupRouter(Deps{
		JWTSecret:   testSecret,
		CORSOrigins: []string{"http://localhost:3000"},
		Bookings:    &controllers.BookingController{Bookings: bookings},
		Clients:     &controllers.ClientController{Loyalty: loyalty, Bookings: bookings},
		Loyalty:     &controllers.LoyaltyController{Loyalty: loyalty},
		Inventory:   &controllers.InventoryController{Inventory: inventory},
		Staff:       &controllers.StaffController{Staff: staff, Shop: shop},
		Catalog:     &controllers.CatalogController{Catalog: catalog},
		Plan:        &controllers.PlanController{Shop: shop, Gate: gate, Staff: staff},
		Dashboard: &controllers.DashboardController{
			Bookings:  bookings,
			Loyalty:   loyalty,
			Inventory: inventory,
			Insights:  services.NewInsightService(nil),
			Location:  services.NewLocationService(nil),
		},
		Reports: &controllers.ReportController{Bookings: bookings},
	})
	return &testApp{router: r, shop: shop, loyalty: loyalty, staff: staff, catalog: catalog}
}

func (a *testApp) do(t *testing.T, method, path string, p models.Principal, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		token, err := utils.GenerateToken(p, a.shop.Shop().ID, testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

var admin = models.AdminPrincipal{AdminID: uuid.New()}

func (a *testApp) seedBookable(t *testing.T) (client *models.ClientProfile, barber *models.Barber, service *models.Service) {
	t.Helper()
	ctx := context.Background()
	var err error
	client, err = a.loyalty.RegisterClient(ctx, services.RegisterClientInput{Name: "Ana", Phone: "+5511999990000"})
	require.NoError(t, err)
	barber, err = a.staff.AddBarber(ctx, services.AddBarberInput{Name: "Rafa", Email: "rafa@shop.com", Password: "password1"}, a.shop.Plan())
	require.NoError(t, err)
	service, err = a.catalog.CreateService(ctx, services.CreateServiceInput{Name: "Corte", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)
	return client, barber, service
}

func TestRouter_RequiresToken(t *testing.T) {
	app := setupApp(t, models.PlanPro)

	w := app.do(t, http.MethodGet, "/api/plan", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_BookingFlow(t *testing.T) {
	app := setupApp(t, models.PlanPro)
	client, barber, service := app.seedBookable(t)
	receptionist := models.ReceptionistPrincipal{StaffID: uuid.New()}

	w := app.do(t, http.MethodPost, "/api/bookings", models.ClientPrincipal{ClientID: client.ID}, gin.H{
		"barberId": barber.ID, "serviceId": service.ID, "date": "2025-03-10", "time": "10:00", "price": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.True(t, booking.Price.Equal(decimal.NewFromInt(80)), "client cannot override the price")
	assert.Equal(t, client.ID, booking.ClientID)

	path := "/api/bookings/" + booking.ID.String() + "/status"
	w = app.do(t, http.MethodPatch, path, models.ClientPrincipal{ClientID: client.ID}, gin.H{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPatch, path, receptionist, gin.H{"status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPatch, path, receptionist, gin.H{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(t, http.MethodPatch, path, receptionist, gin.H{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/clients/"+client.ID.String(), models.ClientPrincipal{ClientID: client.ID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.ClientProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.EqualValues(t, 80, profile.LoyaltyPoints)
	assert.Equal(t, 1, profile.TotalVisits)

	w = app.do(t, http.MethodGet, "/api/clients/"+uuid.NewString(), models.ClientPrincipal{ClientID: client.ID}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, "/api/bookings/"+booking.ID.String(), receptionist, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodDelete, "/api/bookings/"+booking.ID.String(), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SlotConflictIsConflict(t *testing.T) {
	app := setupApp(t, models.PlanPro)
	client, barber, service := app.seedBookable(t)
	body := gin.H{"clientId": client.ID, "barberId": barber.ID, "serviceId": service.ID, "date": "2025-03-10", "time": "10:00"}

	w := app.do(t, http.MethodPost, "/api/bookings", admin, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	w = app.do(t, http.MethodPatch, "/api/bookings/"+first.ID.String()+"/status", admin, gin.H{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/api/bookings", admin, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_PlanGating(t *testing.T) {
	app := setupApp(t, models.PlanRookie)

	w := app.do(t, http.MethodGet, "/api/products", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodGet, "/api/loyalty/rules", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodGet, "/api/reports", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPut, "/api/plan", admin, gin.H{"plan": "Barber Pro"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview controllers.PlanOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, models.PlanPro, overview.Plan.Tier)
	assert.Equal(t, 5, overview.BarberCap)

	w = app.do(t, http.MethodGet, "/api/products", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/api/reports", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodPost, "/api/insights", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_BarberLimit(t *testing.T) {
	app := setupApp(t, models.PlanRookie)

	w := app.do(t, http.MethodPost, "/api/barbers", admin, gin.H{"name": "Rafa", "email": "rafa@shop.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/barbers", admin, gin.H{"name": "Leo", "email": "leo@shop.com", "password": "password1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_RedeemInsufficientPoints(t *testing.T) {
	app := setupApp(t, models.PlanPro)
	client, _, _ := app.seedBookable(t)
	reward := app.loyalty.Rewards()[0]

	w := app.do(t, http.MethodPost, "/api/clients/"+client.ID.String()+"/redeem",
		models.ClientPrincipal{ClientID: client.ID}, gin.H{"rewardId": reward.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_InventoryClamp(t *testing.T) {
	app := setupApp(t, models.PlanPro)

	w := app.do(t, http.MethodPost, "/api/products", admin, gin.H{"name": "Pomade", "price": "45", "stock": 2, "minStock": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	w = app.do(t, http.MethodPost, "/api/products/"+product.ID.String()+"/transactions", admin,
		gin.H{"type": "OUT", "quantity": 5, "reason": "sold"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Zero(t, product.Stock)

	w = app.do(t, http.MethodGet, "/api/products/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	assert.Len(t, low, 1)
}

func TestRouter_DashboardFallbacks(t *testing.T) {
	app := setupApp(t, models.PlanLegend)

	w := app.do(t, http.MethodPost, "/api/insights", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Insights []string `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.FallbackInsights, resp.Insights)

	w = app.do(t, http.MethodGet, "/api/location?lat=-23.5&lng=-46.6", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"city":"São Paulo","state":"SP"}`, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/location", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/dashboard", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
