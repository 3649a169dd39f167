package controllers

import (
	"net/http"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoyaltyController struct {
	Loyalty *services.LoyaltyEngine
}

// GetRules lists the loyalty rules
func (lc *LoyaltyController) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, lc.Loyalty.Rules())
}

// PutRules replaces the rule catalogue.
func (lc *LoyaltyController) PutRules(c *gin.Context) {
	var rules []models.LoyaltyRule
	if err := c.ShouldBindJSON(&rules); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	saved, err := lc.Loyalty.SetRules(c.Request.Context(), rules)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ToggleRule enables or disables a rule
func (lc *LoyaltyController) ToggleRule(c *gin.Context) {
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
	rule, err := lc.Loyalty.SetRuleActive(c.Request.Context(), id, *input.IsActive)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// GetTiers lists the loyalty tiers
func (lc *LoyaltyController) GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, lc.Loyalty.Tiers())
}

// PutTiers replaces the tier table
func (lc *LoyaltyController) PutTiers(c *gin.Context) {
	var tiers []models.LoyaltyTier
	if err := c.ShouldBindJSON(&tiers); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := lc.Loyalty.SetTiers(c.Request.Context(), tiers); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.Loyalty.Tiers())
}

// GetRewards lists the reward catalog
func (lc *LoyaltyController) GetRewards(c *gin.Context) {
	c.JSON(http.StatusOK, lc.Loyalty.Rewards())
}

// CreateReward adds or updates a reward
func (lc *LoyaltyController) CreateReward(c *gin.Context) {
	var reward models.Reward
	if err := c.ShouldBindJSON(&reward); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	saved, err := lc.Loyalty.UpsertReward(c.Request.Context(), reward)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}
