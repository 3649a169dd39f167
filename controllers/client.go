package controllers

import (
	"net/http"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ClientController struct {
	Loyalty  *services.LoyaltyEngine
	Bookings *services.BookingLedger
	Notifier *services.Notifier
}

type CreateClientInput struct {
	Name        string     `json:"name" binding:"required"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Birthday    *time.Time `json:"birthday"`
	Preferences []string   `json:"preferences"`
}

type UpdateClientInput struct {
	Name        *string              `json:"name"`
	Phone       *string              `json:"phone"`
	Email       *string              `json:"email"`
	Birthday    *time.Time           `json:"birthday"`
	Preferences *[]string            `json:"preferences"`
	Status      *models.ClientStatus `json:"status"`
}

type RedeemInput struct {
	RewardID uuid.UUID `json:"rewardId" binding:"required"`
}

type BonusInput struct {
	Type models.LoyaltyRuleType `json:"type" binding:"required"`
}

// CreateClient registers a new client
func (cc *ClientController) CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	client, err := cc.Loyalty.RegisterClient(c.Request.Context(), services.RegisterClientInput{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Birthday:    input.Birthday,
		Preferences: input.Preferences,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients lists all clients
func (cc *ClientController) GetClients(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Loyalty.ListClients(c.Request.Context()))
}

// GetClient returns a client profile with its history
func (cc *ClientController) GetClient(c *gin.Context) {
	id, ok := cc.clientParam(c)
	if !ok {
		return
	}
	client, err := cc.Loyalty.GetClient(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient edits a client profile
func (cc *ClientController) UpdateClient(c *gin.Context) {
	id, ok := cc.clientParam(c)
	if !ok {
		return
	}
	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	// Clients may not change their own status.
	if p, _ := utils.CurrentPrincipal(c); p != nil && !models.IsStaff(p) {
		input.Status = nil
	}

	client, err := cc.Loyalty.UpdateClient(c.Request.Context(), id, services.UpdateClientInput{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Birthday:    input.Birthday,
		Preferences: input.Preferences,
		Status:      input.Status,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// RedeemReward trades points for a voucher and texts it to the client.
func (cc *ClientController) RedeemReward(c *gin.Context) {
	id, ok := cc.clientParam(c)
	if !ok {
		return
	}
	var input RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	voucher, err := cc.Loyalty.Redeem(ctx, id, input.RewardID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	client, err := cc.Loyalty.GetClient(ctx, id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	if cc.Notifier != nil {
		cc.Notifier.NotifyVoucher(ctx, *client, *voucher)
	}

	c.JSON(http.StatusOK, gin.H{
		"voucher":       voucher,
		"loyaltyPoints": client.LoyaltyPoints,
	})
}

// ApplyBonus credits manual bonus points
func (cc *ClientController) ApplyBonus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input BonusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	points, err := cc.Loyalty.ApplyBonus(c.Request.Context(), id, input.Type)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	log.Info().Str("client_id", id.String()).Str("type", string(input.Type)).Msg("manual bonus")
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetTier returns the tier progress of a client
func (cc *ClientController) GetTier(c *gin.Context) {
	id, ok := cc.clientParam(c)
	if !ok {
		return
	}
	progress, err := cc.Loyalty.TierProgress(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetClientBookings lists the bookings of a client
func (cc *ClientController) GetClientBookings(c *gin.Context) {
	id, ok := cc.clientParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cc.Bookings.ListByClient(c.Request.Context(), id))
}

// clientParam reads :id and keeps client principals to their own record.
func (cc *ClientController) clientParam(c *gin.Context) (uuid.UUID, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	p, _ := utils.CurrentPrincipal(c)
	if cp, isClient := p.(models.ClientPrincipal); isClient && cp.ClientID != id {
		utils.RespondWithError(c, http.StatusForbidden, "Clients can only access their own profile")
		return uuid.Nil, false
	}
	return id, true
}
