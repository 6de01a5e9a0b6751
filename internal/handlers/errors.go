package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP response.
// failure is the message shown for unexpected errors, e.g. "Failed to create expense".
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	var blocked *domain.ClosureBlockedError
	switch {
	case errors.As(err, &blocked):
		logger.Info("Request blocked by close gate", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ToCloseBlockedResponse(blocked))
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStateConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("State conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// callerHandle returns the authenticated handle, writing a 401 when there is none.
func callerHandle(c *gin.Context, logger *slog.Logger) (string, bool) {
	handle, ok := middleware.GetHandleFromContext(c)
	if !ok {
		logger.Error("Handle not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return handle, true
}
