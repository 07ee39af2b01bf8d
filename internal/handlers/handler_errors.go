package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to an HTTP status. Server-side failures
// are logged at error level with the full chain; the client gets a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	var gwErr *apperrors.GatewayError
	switch {
	case errors.As(err, &gwErr):
		if gwErr.Retryable {
			logger.Warn("Gateway outcome pending", slog.String("error", err.Error()))
			c.Header("Retry-After", "30")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway did not confirm the payout; retry later", "retryable": true})
			return
		}
		logger.Warn("Gateway rejected request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway rejected the payout: " + gwErr.Reason, "retryable": false})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid state", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
	}
}
