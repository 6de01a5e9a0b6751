package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to settlement payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// RegisterPaymentRoutes registers routes related to payments.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	rg.POST("/events/:eventID/payments", h.createPayment)
	rg.GET("/events/:eventID/payments", h.listPayments)
	rg.POST("/events/:eventID/payments/confirm", h.confirmPayment)

	payments := rg.Group("/payments")
	{
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/confirm", h.confirmPaymentByID)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Records a pending claim that From paid To. From defaults to the caller.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event is closed"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Security BearerAuth
// @Router /events/{eventID}/payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), c.Param("eventID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments of an event
// @Tags payments
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /events/{eventID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))

	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("paymentID")))

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// confirmPayment godoc
// @Summary Confirm a payment by its details
// @Description Confirms the oldest pending payment matching (from, to, amount). Only the recipient may confirm.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   eventID path string true "Event ID"
// @Param   payment body dto.ConfirmPaymentRequest true "Payment to confirm"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the recipient"
// @Failure 409 {object} map[string]string "No matching pending payment"
// @Failure 500 {object} map[string]string "Failed to confirm payment"
// @Security BearerAuth
// @Router /events/{eventID}/payments/confirm [post]
func (h *paymentHandler) confirmPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_id", c.Param("eventID")))
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	confirmer, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("eventID"), req, confirmer)
	if err != nil {
		respondError(c, logger, err, "Failed to confirm payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// confirmPaymentByID godoc
// @Summary Confirm a payment by ID
// @Description Confirms a specific pending payment. Only the recipient may confirm.
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the recipient"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already confirmed"
// @Failure 500 {object} map[string]string "Failed to confirm payment"
// @Security BearerAuth
// @Router /payments/{paymentID}/confirm [post]
func (h *paymentHandler) confirmPaymentByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("paymentID")))
	confirmer, ok := callerHandle(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.ConfirmPaymentByID(c.Request.Context(), c.Param("paymentID"), confirmer)
	if err != nil {
		respondError(c, logger, err, "Failed to confirm payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
