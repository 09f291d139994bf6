package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/pkg/auth"
	"github.com/yourusername/survey-api/pkg/auth/manager"
)

// Ключи контекста Gin, выставляемые после успешной аутентификации
const (
	ContextAdminID = "admin_id"
	ContextEmail   = "email"
)

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	tokenManager *manager.TokenManager
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService, tokenManager *manager.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		tokenManager: tokenManager,
	}
}

// RequireAuth проверяет, аутентифицирован ли администратор.
// Токен берется из куки; заголовок Authorization поддерживается
// для обратной совместимости с API-клиентами.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.tokenManager.GetAccessTokenFromCookie(c.Request)
		if err != nil {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
				c.Abort()
				return
			}

			// Проверяем формат заголовка Bearer {token}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := m.jwtService.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// AdminID извлекает ID аутентифицированного администратора из контекста
func AdminID(c *gin.Context) uint {
	return c.MustGet(ContextAdminID).(uint)
}
