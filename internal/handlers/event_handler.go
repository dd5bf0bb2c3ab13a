package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/events/internal/helpers"
	"github.com/joshua-takyi/events/internal/middleware"
	"github.com/joshua-takyi/events/internal/models"
	"github.com/joshua-takyi/events/internal/services"
)

// ListUserEvents handles GET /events for the authenticated caller.
func ListUserEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		events, err := es.FindAllByOwner(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		var input models.CreateEventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}
		input.Sanitize()
		if err := input.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.ValidationResponse(helpers.FieldViolations(err)))
			return
		}

		// the owner always comes from the token
		event, err := es.Create(c.Request.Context(), input, claims.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseEventID(c)
		if !ok {
			return
		}

		event, err := es.FindByID(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		eventID, ok := parseEventID(c)
		if !ok {
			return
		}

		var input models.UpdateEventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}
		input.Sanitize()
		if err := input.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.ValidationResponse(helpers.FieldViolations(err)))
			return
		}

		event, err := es.Update(c.Request.Context(), eventID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		eventID, ok := parseEventID(c)
		if !ok {
			return
		}

		if err := es.Remove(c.Request.Context(), eventID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func parseEventID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("eventId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
		return 0, false
	}
	return id, true
}

// respondError writes the 404 itself and leaves every other failure to the
// ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
		return
	}
	_ = c.Error(err)
}
