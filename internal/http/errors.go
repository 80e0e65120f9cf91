package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

// writeServiceError traduce errores de servicio a status HTTP. Lo no reconocido es
// un 500 con el mensaje generico de la operacion.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error, op, fallback string) {
	status, msg := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidPersonaCount),
		errors.Is(err, service.ErrOAuthInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrPaymentRequired):
		status, msg = http.StatusPaymentRequired, "upgrade required"
	case errors.Is(err, service.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, service.ErrAlreadySwiped),
		errors.Is(err, service.ErrAlreadyOnboarded):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// requireUser corta la request si no hay usuario en el contexto.
func requireUser(c *gin.Context) bool {
	if _, ok := CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}
