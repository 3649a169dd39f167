package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberpro-backend/config"
	"barberpro-backend/controllers"
	"barberpro-backend/models"
	"barberpro-backend/repository"
	"barberpro-backend/routes"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.GinMode == gin.ReleaseMode)
	gin.SetMode(cfg.GinMode)

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = utils.GenerateJWTSecret()
		log.Warn().Msg("JWT_SECRET not set, using a random secret for this process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}

	app, err := buildApp(ctx, cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to restore state")
	}
	if err := app.scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bonus scheduler")
	}
	defer app.scheduler.Stop()

	if cfg.IssueAdminToken {
		token, err := utils.GenerateToken(models.AdminPrincipal{AdminID: uuid.New()}, app.shop.Shop().ID, cfg.JWTSecret, cfg.JWTExpiry)
		if err != nil {
			log.Error().Err(err).Msg("Failed to issue admin token")
		} else {
			log.Info().Str("token", token).Msg("Admin token issued")
		}
	}

	r := routes.SetupRouter(app.deps(cfg))
	printRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	utils.LogError(srv.Shutdown(shutdownCtx), "Server shutdown failed")
}

// openStore connects to Postgres when DB_URL is set and otherwise keeps
// everything in memory.
func openStore(cfg config.Config) (services.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DB_URL not set, state will not survive a restart")
		return services.NopStore{}, nil
	}
	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := repository.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

type app struct {
	shop      *services.ShopSettings
	gate      *services.PlanGate
	staff     *services.StaffRoster
	catalog   *services.Catalog
	loyalty   *services.LoyaltyEngine
	bookings  *services.BookingLedger
	inventory *services.InventoryLedger
	notifier  *services.Notifier
	insights  *services.InsightService
	location  *services.LocationService
	scheduler *services.BonusScheduler
}

func buildApp(ctx context.Context, cfg config.Config, store services.Store) (*app, error) {
	opts := []services.Option{services.WithProBarberCap(cfg.ProBarberCap)}
	inventoryOpts := opts
	if cfg.StrictStock {
		inventoryOpts = append(inventoryOpts, services.WithStrictStock())
	}

	a := &app{
		shop:      services.NewShopSettings(store, opts...),
		gate:      services.NewPlanGate(opts...),
		catalog:   services.NewCatalog(store),
		loyalty:   services.NewLoyaltyEngine(store, opts...),
		inventory: services.NewInventoryLedger(store, inventoryOpts...),
	}
	a.staff = services.NewStaffRoster(store, a.gate, opts...)
	a.bookings = services.NewBookingLedger(store, a.loyalty, a.staff, a.catalog, a.loyalty, opts...)

	var sender services.MessageSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	} else {
		log.Warn().Msg("Twilio credentials not set, notifications will be recorded as failed")
	}
	a.notifier = services.NewNotifier(sender, store, services.NotifierConfig{
		PhoneNumber:    cfg.TwilioPhoneNumber,
		WhatsAppNumber: cfg.TwilioWhatsAppNumber,
	}, opts...)

	var generator services.InsightGenerator
	if cfg.InsightsURL != "" {
		generator = services.NewHTTPInsightGenerator(cfg.InsightsURL, cfg.InsightsAPIKey, cfg.HTTPTimeout)
	}
	a.insights = services.NewInsightService(generator)

	var geocoder services.ReverseGeocoder
	if cfg.GeocoderURL != "" {
		geocoder = services.NewHTTPGeocoder(cfg.GeocoderURL, cfg.HTTPTimeout)
	}
	a.location = services.NewLocationService(geocoder)

	a.scheduler = services.NewBonusScheduler(a.loyalty, a.notifier, cfg.BonusCron, opts...)

	if err := a.shop.Restore(ctx, cfg.ShopName); err != nil {
		return nil, err
	}
	for name, restore := range map[string]func(context.Context) error{
		"barbers":   a.staff.Restore,
		"services":  a.catalog.Restore,
		"loyalty":   a.loyalty.Restore,
		"bookings":  a.bookings.Restore,
		"inventory": a.inventory.Restore,
	} {
		if err := restore(ctx); err != nil {
			return nil, fmt.Errorf("restore %s: %w", name, err)
		}
	}
	if err := a.loyalty.SeedDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed loyalty defaults: %w", err)
	}
	return a, nil
}

func (a *app) deps(cfg config.Config) routes.Deps {
	plan := &controllers.PlanController{Shop: a.shop, Gate: a.gate, Staff: a.staff}
	return routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Bookings:    &controllers.BookingController{Bookings: a.bookings},
		Clients:     &controllers.ClientController{Loyalty: a.loyalty, Bookings: a.bookings, Notifier: a.notifier},
		Loyalty:     &controllers.LoyaltyController{Loyalty: a.loyalty},
		Inventory:   &controllers.InventoryController{Inventory: a.inventory},
		Staff:       &controllers.StaffController{Staff: a.staff, Shop: a.shop},
		Catalog:     &controllers.CatalogController{Catalog: a.catalog},
		Plan:        plan,
		Dashboard: &controllers.DashboardController{
			Bookings:  a.bookings,
			Loyalty:   a.loyalty,
			Inventory: a.inventory,
			Insights:  a.insights,
			Location:  a.location,
		},
		Reports: &controllers.ReportController{Bookings: a.bookings},
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
