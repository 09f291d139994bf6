package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/middleware"
	"github.com/yourusername/survey-api/internal/service"
	"github.com/yourusername/survey-api/pkg/auth/manager"
)

// AuthHandler обрабатывает запросы сессий администратора
type AuthHandler struct {
	authService  *service.AuthService
	tokenManager *manager.TokenManager
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, tokenManager *manager.TokenManager) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
	}
}

// LoginRequest представляет запрос на вход.
// Старые клиенты присылают email в поле "username".
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Login обрабатывает POST /api/sessions
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	admin, err := h.authService.Login(email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.tokenManager.IssueTokens(c.Writer, admin); err != nil {
		log.Printf("[AuthHandler] Не удалось выдать токены администратору ID=%d: %v", admin.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAdminResponse(admin))
}

// Current обрабатывает GET /api/sessions/current
func (h *AuthHandler) Current(c *gin.Context) {
	admin, err := h.authService.GetAdminByID(middleware.AdminID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminResponse(admin))
}

// Logout обрабатывает DELETE /api/sessions/current
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.tokenManager.RevokeTokens(c.Writer, c.Request); err != nil {
		log.Printf("[AuthHandler] Ошибка при отзыве токенов: %v", err)
	}
	c.Status(http.StatusOK)
}

// Refresh обрабатывает POST /api/sessions/refresh:
// обменивает refresh-куку на новую пару токенов
func (h *AuthHandler) Refresh(c *gin.Context) {
	admin, err := h.tokenManager.RefreshTokens(c.Writer, c.Request)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminResponse(admin))
}
