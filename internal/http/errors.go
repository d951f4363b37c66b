package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/service"
)

// statusFor traduce errores centinela de servicio al status HTTP. ok=false
// significa error inesperado (500).
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, service.ErrInvalidAnswerValue),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrJWTInvalid),
		errors.Is(err, service.ErrJWTExpired):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, service.ErrStepNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSessionCompleted):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, true
	case errors.Is(err, service.ErrNoQuestionsGenerated):
		return http.StatusBadGateway, true
	case errors.Is(err, service.ErrGeneratorNotConfigured),
		errors.Is(err, service.ErrSearchIndexUnavailable):
		return http.StatusServiceUnavailable, true
	}
	return http.StatusInternalServerError, false
}

// respondError escribe {"error": ...}. Los errores no mapeados se loguean y
// se ocultan detras de fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	status, known := statusFor(err)
	if !known {
		logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Warn(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
