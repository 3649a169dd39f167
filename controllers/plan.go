package controllers

import (
	"net/http"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Shop  *services.ShopSettings
	Gate  *services.PlanGate
	Staff *services.StaffRoster
}

type PlanOverview struct {
	Plan               models.Plan       `json:"plan"`
	TrialDaysRemaining int               `json:"trialDaysRemaining"`
	TrialExpired       bool              `json:"trialExpired"`
	Modules            []services.Module `json:"modules"`
	BarberCap          int               `json:"barberCap"` // -1 means unlimited
	ActiveBarbers      int               `json:"activeBarbers"`
	CanAddBarber       bool              `json:"canAddBarber"`
}

type ChangePlanInput struct {
	Plan string `json:"plan" binding:"required"`
}

type UpdateShopInput struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	CompanyCode *string `json:"companyCode"`
}

// RequireModule blocks the route unless the shop's plan unlocks m.
func (pc *PlanController) RequireModule(m services.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pc.Gate.Check(m, pc.Shop.Plan()); err != nil {
			respondWithServiceError(c, err)
			return
		}
		c.Next()
	}
}

// GetPlan returns the current plan and its unlocked modules
func (pc *PlanController) GetPlan(c *gin.Context) {
	c.JSON(http.StatusOK, pc.overview())
}

// ChangePlan accepts a tier code or a commercial plan name.
func (pc *PlanController) ChangePlan(c *gin.Context) {
	var input ChangePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	tier, ok := models.ParsePlanTier(input.Plan)
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown plan")
		return
	}
	if _, err := pc.Shop.ChangePlan(c.Request.Context(), tier); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pc.overview())
}

// GetShop returns the shop profile
func (pc *PlanController) GetShop(c *gin.Context) {
	c.JSON(http.StatusOK, pc.Shop.Shop())
}

// UpdateShop edits the shop profile
func (pc *PlanController) UpdateShop(c *gin.Context) {
	var input UpdateShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	shop, err := pc.Shop.UpdateProfile(c.Request.Context(), services.UpdateShopInput{
		Name:        input.Name,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		CompanyCode: input.CompanyCode,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (pc *PlanController) overview() PlanOverview {
	plan := pc.Shop.Plan()
	active := pc.Staff.ActiveCount()
	return PlanOverview{
		Plan:               plan,
		TrialDaysRemaining: pc.Gate.TrialDaysRemaining(plan),
		TrialExpired:       pc.Gate.TrialExpired(plan),
		Modules:            pc.Gate.UnlockedModules(plan),
		BarberCap:          pc.Gate.BarberCap(plan),
		ActiveBarbers:      active,
		CanAddBarber:       pc.Gate.CanAddBarber(active, plan),
	}
}
