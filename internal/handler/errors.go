package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service"
)

// handleError переводит ошибки сервисного слоя в HTTP-статусы.
// Ошибки валидации возвращают полный список нарушений, чтобы клиент
// мог показать их все разом.
func handleError(c *gin.Context, err error) {
	if violations := service.Violations(err); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Data is not correct!",
			"violations": violations,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("[Handler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
