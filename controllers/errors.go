package controllers

import (
	"errors"
	"net/http"

	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// respondWithServiceError maps a service error to its HTTP status.
func respondWithServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrPlanLimitExceeded):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrNoActiveRule):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSlotTaken),
		errors.Is(err, services.ErrReferentialIntegrity),
		errors.Is(err, services.ErrInsufficientStock):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		utils.RespondWithError(c, status, "Internal server error")
		return
	}
	utils.RespondWithError(c, status, err.Error())
}

// paramID parses the :name path parameter as a UUID.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter.
func queryID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
