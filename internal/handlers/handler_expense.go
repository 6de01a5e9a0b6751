package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses and votes.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// RegisterExpenseRoutes registers routes related to expenses.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := &expenseHandler{expenseService: expenseService}

	rg.POST("/events/:eventID/expenses", h.createExpense)
	rg.GET("/events/:eventID/expenses", h.listExpenses)

	expenses := rg.Group("/expenses")
	{
		expenses.GET("/:expenseID", h.getExpense)
		expenses.POST("/:expenseID/votes", h.castVote)
	}
}

// createExpense godoc
// @Summary Log an expense
// @Description Logs an expense against an open event. Amounts are in minor units.
// @Description Payer defaults to the caller; an expense with a single participant is confirmed at once.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event is closed"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /events/{eventID}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), c.Param("eventID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense, h.expenseService.ApprovalPolicy()))
}

// listExpenses godoc
// @Summary List expenses of an event
// @Tags expenses
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /events/{eventID}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponses(expenses, h.expenseService.ApprovalPolicy()))
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Security BearerAuth
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("expenseID")))

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("expenseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, h.expenseService.ApprovalPolicy()))
}

// castVote godoc
// @Summary Vote on an expense
// @Description Records an agree or disagree vote. A single disagree rejects the expense.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Param   vote body dto.CastVoteRequest true "Vote"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Voter is not a participant or is not the caller"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is no longer pending"
// @Failure 500 {object} map[string]string "Failed to record vote"
// @Security BearerAuth
// @Router /expenses/{expenseID}/votes [post]
func (h *expenseHandler) castVote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("expenseID")))
	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CastVote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	voter, ok := callerHandle(c, logger)
	if !ok {
		return
	}
	if req.Voter != "" && domain.NormalizeHandle(req.Voter) != voter {
		respondError(c, logger, fmt.Errorf("%w: votes can only be cast as yourself", apperrors.ErrForbidden), "Failed to record vote")
		return
	}

	expense, err := h.expenseService.CastVote(c.Request.Context(), c.Param("expenseID"), voter, domain.Vote(req.Vote))
	if err != nil {
		respondError(c, logger, err, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, h.expenseService.ApprovalPolicy()))
}
