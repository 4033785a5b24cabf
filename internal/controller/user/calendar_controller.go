package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CalendarController struct {
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{calendarService: calendarService}
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Description Creates a personal event; a reminder mail is sent 24 hours before it starts.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body dto.EventCreateDTO true "Event data"
// @Success 201 {object} dto.EventResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Security BearerAuth
// @Router /calendar/events [post]
func (c *CalendarController) CreateEvent(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.EventCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	event, err := c.calendarService.CreateEvent(user, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("CreateEvent: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create event"})
		return
	}
	ctx.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List own calendar events
// @Tags Calendar
// @Produce json
// @Success 200 {array} dto.EventResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /calendar/events [get]
func (c *CalendarController) ListEvents(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	events, err := c.calendarService.ListEvents(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("ListEvents: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve events"})
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update an own event
// @Description Changing the start time re-arms the reminder mail.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event_id path int true "Event ID"
// @Param event body dto.EventUpdateDTO true "Fields to update"
// @Success 200 {object} dto.EventResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Not your event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /calendar/events/{event_id} [put]
func (c *CalendarController) UpdateEvent(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	eventID, ok := eventPathID(ctx)
	if !ok {
		return
	}

	var req dto.EventUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	event, err := c.calendarService.UpdateEvent(user, eventID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Event not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this event"})
		default:
			log.Error().Err(err).Uint("eventID", eventID).Msg("UpdateEvent: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update event"})
		}
		return
	}
	ctx.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an own event
// @Tags Calendar
// @Produce json
// @Param event_id path int true "Event ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Failure 403 {object} dto.ErrorResponse "Not your event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /calendar/events/{event_id} [delete]
func (c *CalendarController) DeleteEvent(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	eventID, ok := eventPathID(ctx)
	if !ok {
		return
	}

	if err := c.calendarService.DeleteEvent(user, eventID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Event not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this event"})
		default:
			log.Error().Err(err).Uint("eventID", eventID).Msg("DeleteEvent: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete event"})
		}
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted"})
}

func eventPathID(ctx *gin.Context) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param("event_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid event_id format"})
		return 0, false
	}
	return uint(val), true
}
