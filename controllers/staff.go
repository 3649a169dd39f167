package controllers

import (
	"net/http"

	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StaffController struct {
	Staff *services.StaffRoster
	Shop  *services.ShopSettings
}

type AddBarberInput struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	Password     string   `json:"password" binding:"required"`
	Specialties  []string `json:"specialties"`
	Availability []string `json:"availability"`
}

// GetBarbers lists the barbers
func (sc *StaffController) GetBarbers(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Staff.ListBarbers(c.Request.Context()))
}

// AddBarber adds a barber within the plan limit
func (sc *StaffController) AddBarber(c *gin.Context) {
	var input AddBarberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	barber, err := sc.Staff.AddBarber(c.Request.Context(), services.AddBarberInput{
		Name:         input.Name,
		Email:        input.Email,
		Password:     input.Password,
		Specialties:  input.Specialties,
		Availability: input.Availability,
	}, sc.Shop.Plan())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, barber)
}

// SetBarberActive activates or deactivates a barber
func (sc *StaffController) SetBarberActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	barber, err := sc.Staff.SetActive(c.Request.Context(), id, *input.IsActive, sc.Shop.Plan())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, barber)
}

// CatalogController serves the service menu.
type CatalogController struct {
	Catalog *services.Catalog
}

type CreateServiceInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration" binding:"min=0"` // in minutes
	Category    string          `json:"category"`
}

type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

// CreateService adds a service to the catalog
func (cc *CatalogController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	service, err := cc.Catalog.CreateService(c.Request.Context(), services.CreateServiceInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Category:    input.Category,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

// GetServices lists the catalog
func (cc *CatalogController) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Catalog.ListServices(c.Request.Context()))
}

// GetService returns a single service
func (cc *CatalogController) GetService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	service, err := cc.Catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService edits a service
func (cc *CatalogController) UpdateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	service, err := cc.Catalog.UpdateService(c.Request.Context(), id, services.UpdateServiceInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}
