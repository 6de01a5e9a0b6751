package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the derived views of an event's ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

// RegisterLedgerRoutes registers the balance, settlement and summary routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := &ledgerHandler{ledgerService: ledgerService}

	events := rg.Group("/events/:eventID")
	{
		events.GET("/balances", h.getBalances)
		events.GET("/settlements", h.getSettlements)
		events.GET("/summary", h.getSummary)
	}
}

// getBalances godoc
// @Summary Net balances of an event
// @Description Positive balances are owed money, negative balances owe. Amounts are in minor units.
// @Tags ledger
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {object} dto.BalancesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /events/{eventID}/balances [get]
func (h *ledgerHandler) getBalances(c *gin.Context) {
	eventID := c.Param("eventID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", eventID))

	balances, err := h.ledgerService.ComputeBalances(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balances")
		return
	}

	entries := balances.Entries()
	settled := true
	for _, e := range entries {
		if e.Amount != 0 {
			settled = false
			break
		}
	}
	c.JSON(http.StatusOK, dto.BalancesResponse{EventID: eventID, Balances: entries, Settled: settled})
}

// getSettlements godoc
// @Summary Settlement instructions of an event
// @Description Transfers that bring every balance to zero, largest debts first.
// @Tags ledger
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {object} dto.SettlementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to compute settlements"
// @Security BearerAuth
// @Router /events/{eventID}/settlements [get]
func (h *ledgerHandler) getSettlements(c *gin.Context) {
	eventID := c.Param("eventID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", eventID))

	settlements, err := h.ledgerService.ComputeSettlements(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute settlements")
		return
	}
	c.JSON(http.StatusOK, dto.SettlementsResponse{EventID: eventID, Settlements: settlements})
}

// getSummary godoc
// @Summary Summary of an event
// @Tags ledger
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {object} domain.EventSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to summarise event"
// @Security BearerAuth
// @Router /events/{eventID}/summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	eventID := c.Param("eventID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", eventID))

	summary, err := h.ledgerService.GetSummary(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, logger, err, "Failed to summarise event")
		return
	}
	c.JSON(http.StatusOK, summary)
}
