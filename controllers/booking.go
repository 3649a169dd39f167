package controllers

import (
	"net/http"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingController struct {
	Bookings *services.BookingLedger
}

type CreateBookingInput struct {
	ClientID  uuid.UUID        `json:"clientId"`
	BarberID  uuid.UUID        `json:"barberId" binding:"required"`
	ServiceID uuid.UUID        `json:"serviceId" binding:"required"`
	Date      string           `json:"date" binding:"required"`
	Time      string           `json:"time" binding:"required"`
	Price     *decimal.Decimal `json:"price"`
}

type UpdateBookingStatusInput struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

// CreateBooking books an appointment. Clients can only book for themselves
// and cannot set the price.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	if cp, ok := p.(models.ClientPrincipal); ok {
		if input.ClientID != uuid.Nil && input.ClientID != cp.ClientID {
			utils.RespondWithError(c, http.StatusForbidden, "Clients can only book for themselves")
			return
		}
		input.ClientID = cp.ClientID
		input.Price = nil
	}
	if input.ClientID == uuid.Nil {
		utils.RespondWithError(c, http.StatusBadRequest, "clientId is required")
		return
	}

	booking, err := bc.Bookings.Create(c.Request.Context(), services.CreateBookingInput{
		ClientID:  input.ClientID,
		BarberID:  input.BarberID,
		ServiceID: input.ServiceID,
		Date:      input.Date,
		Time:      input.Time,
		Price:     input.Price,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists bookings filtered by ?barberId, ?clientId and ?status.
// Clients only ever see their own.
func (bc *BookingController) GetBookings(c *gin.Context) {
	barberID, ok := queryID(c, "barberId")
	if !ok {
		return
	}
	clientID, ok := queryID(c, "clientId")
	if !ok {
		return
	}
	status := models.BookingStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	if cp, ok := p.(models.ClientPrincipal); ok {
		clientID = cp.ClientID
	}

	bookings := bc.Bookings.List(c.Request.Context(), services.BookingFilter{
		BarberID: barberID,
		ClientID: clientID,
		Status:   status,
	})
	c.JSON(http.StatusOK, bookings)
}

// GetBooking returns a single booking
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	p, _ := utils.CurrentPrincipal(c)
	if cp, ok := p.(models.ClientPrincipal); ok && booking.ClientID != cp.ClientID {
		utils.RespondWithError(c, http.StatusNotFound, "booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking to the requested status
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.Bookings.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := bc.Bookings.Delete(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}
