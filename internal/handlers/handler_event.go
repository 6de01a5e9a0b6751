package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/SscSPs/splitledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// eventHandler handles HTTP requests related to events.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
	posthog      *utils.PosthogClientWrapper
}

// RegisterEventRoutes registers routes related to events.
func RegisterEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade, posthog *utils.PosthogClientWrapper) {
	h := &eventHandler{eventService: eventService, posthog: posthog}

	events := rg.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("", h.listEvents)
		events.GET("/code/:code", h.getEventByCode)
		events.GET("/:eventID", h.getEvent)
		events.PATCH("/:eventID", h.updateEvent)
		events.DELETE("/:eventID", h.deleteEvent)
		events.POST("/:eventID/link", h.linkChatGroup)
		events.POST("/:eventID/close", h.closeEvent)
	}
}

// createEvent godoc
// @Summary Create an event
// @Description Creates an event with a generated join code. The caller becomes its creator.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create event"
// @Security BearerAuth
// @Router /events [post]
func (h *eventHandler) createEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	creator, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err, "Failed to create event")
		return
	}

	logger.Info("Event created", slog.String("event_id", event.EventID), slog.String("code", event.Code))
	c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

// listEvents godoc
// @Summary List events
// @Description Lists events newest first, one page at a time
// @Tags events
// @Produce  json
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEventsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list events"
// @Security BearerAuth
// @Router /events [get]
func (h *eventHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEvents", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.eventService.ListEvents(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list events")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getEvent godoc
// @Summary Get an event
// @Tags events
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to retrieve event"
// @Security BearerAuth
// @Router /events/{eventID} [get]
func (h *eventHandler) getEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))

	event, err := h.eventService.GetEventByID(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve event")
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// getEventByCode godoc
// @Summary Get an event by join code
// @Tags events
// @Produce  json
// @Param   code path string true "Join code"
// @Success 200 {object} dto.EventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to retrieve event"
// @Security BearerAuth
// @Router /events/code/{code} [get]
func (h *eventHandler) getEventByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", c.Param("code")))

	event, err := h.eventService.GetEventByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve event")
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// updateEvent godoc
// @Summary Update an event
// @Description Changes event details. Only the creator may do so, and only before a chat group is linked.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Param   event body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the creator"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event is linked or closed"
// @Failure 500 {object} map[string]string "Failed to update event"
// @Security BearerAuth
// @Router /events/{eventID} [patch]
func (h *eventHandler) updateEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("eventID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update event")
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// deleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event. Only the creator may do so, and only before a chat group is linked.
// @Tags events
// @Param   eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the creator"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event is linked or closed"
// @Failure 500 {object} map[string]string "Failed to delete event"
// @Security BearerAuth
// @Router /events/{eventID} [delete]
func (h *eventHandler) deleteEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("eventID"), actor); err != nil {
		respondError(c, logger, err, "Failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}

// linkChatGroup godoc
// @Summary Link a chat group
// @Description Attaches a chat group to the event and activates it. Re-linking the same group is a no-op.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Param   link body dto.LinkChatGroupRequest true "Chat group"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event or group already linked elsewhere"
// @Failure 500 {object} map[string]string "Failed to link chat group"
// @Security BearerAuth
// @Router /events/{eventID}/link [post]
func (h *eventHandler) linkChatGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	var req dto.LinkChatGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LinkChatGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	event, err := h.eventService.LinkChatGroup(c.Request.Context(), c.Param("eventID"), req.ChatGroupID, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to link chat group")
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// closeEvent godoc
// @Summary Close an event
// @Description Closes the event when no expense or payment is pending and every balance is settled.
// @Description A refused close lists every failed check and the transfers that would settle the event.
// @Tags events
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event already closed"
// @Failure 422 {object} dto.CloseBlockedResponse "Close gate refused"
// @Failure 500 {object} map[string]string "Failed to close event"
// @Security BearerAuth
// @Router /events/{eventID}/close [post]
func (h *eventHandler) closeEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	event, err := h.eventService.CloseEvent(c.Request.Context(), c.Param("eventID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to close event")
		if c.Writer.Status() == http.StatusUnprocessableEntity {
			middleware.PosthogEvent(c, h.posthog, "event_close_blocked", map[string]any{"event_id": c.Param("eventID")})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}
