package routes

import (
	"barberpro-backend/config"
	"barberpro-backend/controllers"
	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the controllers the router mounts.
type Deps struct {
	JWTSecret   string
	CORSOrigins []string

	Bookings  *controllers.BookingController
	Clients   *controllers.ClientController
	Loyalty   *controllers.LoyaltyController
	Inventory *controllers.InventoryController
	Staff     *controllers.StaffController
	Catalog   *controllers.CatalogController
	Plan      *controllers.PlanController
	Dashboard *controllers.DashboardController
	Reports   *controllers.ReportController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()

	allowed := make(map[string]bool, len(d.CORSOrigins))
	for _, o := range d.CORSOrigins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
	}))

	r.Use(config.PerformanceLogger())
	r.Use(gin.Recovery())

	admin := utils.RequireRoles(models.RoleAdmin)
	staff := utils.RequireStaff()
	gate := d.Plan.RequireModule

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(d.JWTSecret))
	{
		// Booking routes
		bookings := api.Group("/bookings", gate(services.ModuleBooking))
		{
			bookings.POST("", d.Bookings.CreateBooking)
			bookings.GET("", d.Bookings.GetBookings)
			bookings.GET("/:id", d.Bookings.GetBooking)
			bookings.PATCH("/:id/status", staff, d.Bookings.UpdateBookingStatus)
			bookings.DELETE("/:id", admin, d.Bookings.DeleteBooking)
		}

		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", staff, d.Clients.CreateClient)
			clients.GET("", staff, d.Clients.GetClients)
			clients.GET("/:id", d.Clients.GetClient)
			clients.PUT("/:id", d.Clients.UpdateClient)
			clients.GET("/:id/bookings", d.Clients.GetClientBookings)

			loyal := clients.Group("/:id", gate(services.ModuleLoyalty))
			loyal.POST("/redeem", d.Clients.RedeemReward)
			loyal.POST("/bonus", staff, d.Clients.ApplyBonus)
			loyal.GET("/tier", d.Clients.GetTier)
		}

		// Loyalty programme configuration
		loyalty := api.Group("/loyalty", gate(services.ModuleLoyalty))
		{
			loyalty.GET("/rules", d.Loyalty.GetRules)
			loyalty.PUT("/rules", admin, d.Loyalty.PutRules)
			loyalty.PATCH("/rules/:id", admin, d.Loyalty.ToggleRule)
			loyalty.GET("/tiers", d.Loyalty.GetTiers)
			loyalty.PUT("/tiers", admin, d.Loyalty.PutTiers)
			loyalty.GET("/rewards", d.Loyalty.GetRewards)
			loyalty.POST("/rewards", admin, d.Loyalty.CreateReward)
		}

		// Stock routes
		stock := api.Group("", staff, gate(services.ModuleStock))
		{
			stock.POST("/products", d.Inventory.CreateProduct)
			stock.GET("/products", d.Inventory.GetProducts)
			stock.GET("/products/low-stock", d.Inventory.GetLowStock)
			stock.GET("/products/summary", d.Inventory.GetSummary)
			stock.GET("/products/:id", d.Inventory.GetProduct)
			stock.PUT("/products/:id", d.Inventory.UpdateProduct)
			stock.DELETE("/products/:id", admin, d.Inventory.DeleteProduct)
			stock.POST("/products/:id/transactions", d.Inventory.PostTransaction)

			stock.GET("/categories", d.Inventory.GetCategories)
			stock.POST("/categories", d.Inventory.CreateCategory)
			stock.DELETE("/categories/:id", admin, d.Inventory.DeleteCategory)
		}

		barbers := api.Group("/barbers")
		{
			barbers.GET("", d.Staff.GetBarbers)
			barbers.POST("", admin, d.Staff.AddBarber)
			barbers.PATCH("/:id", admin, d.Staff.SetBarberActive)
		}

		// Service catalogue
		catalog := api.Group("/services")
		{
			catalog.GET("", d.Catalog.GetServices)
			catalog.GET("/:id", d.Catalog.GetService)
			catalog.POST("", admin, d.Catalog.CreateService)
			catalog.PUT("/:id", admin, d.Catalog.UpdateService)
		}

		api.GET("/plan", d.Plan.GetPlan)
		api.PUT("/plan", admin, d.Plan.ChangePlan)
		api.GET("/shop", d.Plan.GetShop)
		api.PUT("/shop", admin, d.Plan.UpdateShop)

		// Dashboard routes
		api.GET("/dashboard", staff, d.Dashboard.GetDashboardOverview)
		api.POST("/insights", staff, gate(services.ModuleInsights), d.Dashboard.GetInsights)
		api.POST("/marketing-copy", staff, gate(services.ModuleMarketing), d.Dashboard.GetMarketingCopy)
		api.GET("/location", d.Dashboard.GetLocation)

		// Reports routes
		api.GET("/reports", staff, gate(services.ModuleFinance), d.Reports.GetReportAnalytics)
	}

	return r
}
