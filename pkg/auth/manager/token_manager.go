package manager

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/auth"
)

// Имена кук, в которых хранятся токены сессии администратора
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// TokenManager управляет жизненным циклом пары токенов: access-токен (JWT)
// в HttpOnly-куке и refresh-токен (случайный UUID) в базе и куке.
type TokenManager struct {
	jwtService  *auth.JWTService
	refreshRepo repository.RefreshTokenRepository
	adminRepo   repository.AdminRepository

	refreshExpiry time.Duration

	// Атрибуты кук
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	sameSite       http.SameSite
}

// NewTokenManager создает новый менеджер токенов и возвращает ошибку при проблемах
func NewTokenManager(
	jwtService *auth.JWTService,
	refreshRepo repository.RefreshTokenRepository,
	adminRepo repository.AdminRepository,
) (*TokenManager, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for TokenManager")
	}
	if refreshRepo == nil {
		return nil, fmt.Errorf("RefreshTokenRepository is required for TokenManager")
	}
	if adminRepo == nil {
		return nil, fmt.Errorf("AdminRepository is required for TokenManager")
	}
	return &TokenManager{
		jwtService:     jwtService,
		refreshRepo:    refreshRepo,
		adminRepo:      adminRepo,
		refreshExpiry:  30 * 24 * time.Hour,
		cookiePath:     "/",
		cookieHTTPOnly: true,
		sameSite:       http.SameSiteLaxMode,
	}, nil
}

// SetRefreshTokenExpiry задает срок жизни refresh-токена
func (m *TokenManager) SetRefreshTokenExpiry(d time.Duration) {
	if d > 0 {
		m.refreshExpiry = d
	}
}

// SetCookieAttributes задает атрибуты выставляемых кук.
// SameSite=None требует Secure=true, поэтому для HTTP остается Lax.
func (m *TokenManager) SetCookieAttributes(path, domain string, secure, httpOnly bool, sameSite http.SameSite) {
	m.cookiePath = path
	m.cookieDomain = domain
	m.cookieSecure = secure
	m.cookieHTTPOnly = httpOnly
	m.sameSite = sameSite
}

// IssueTokens создает пару токенов для администратора и выставляет куки
func (m *TokenManager) IssueTokens(w http.ResponseWriter, admin *entity.Admin) error {
	accessToken, err := m.jwtService.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := &entity.RefreshToken{
		AdminID:   admin.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(m.refreshExpiry),
	}
	if err := m.refreshRepo.Create(refreshToken); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	m.setCookie(w, AccessTokenCookie, accessToken, m.jwtService.AccessTokenExpiry())
	m.setCookie(w, RefreshTokenCookie, refreshToken.Token, m.refreshExpiry)
	return nil
}

// RefreshTokens обменивает refresh-токен из куки на новую пару токенов.
// Старый refresh-токен отзывается (ротация).
func (m *TokenManager) RefreshTokens(w http.ResponseWriter, r *http.Request) (*entity.Admin, error) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: refresh token cookie is missing", apperrors.ErrUnauthorized)
	}

	stored, err := m.refreshRepo.GetByToken(cookie.Value)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token is not recognized", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if stored.IsExpired() {
		// Истекший токен сразу удаляем, чтобы не копился мусор
		_ = m.refreshRepo.Delete(stored.Token)
		return nil, apperrors.ErrExpiredToken
	}

	admin, err := m.adminRepo.GetByID(stored.AdminID)
	if err != nil {
		return nil, err
	}

	if err := m.refreshRepo.Delete(stored.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if err := m.IssueTokens(w, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// RevokeTokens отзывает refresh-токен из куки и очищает куки сессии
func (m *TokenManager) RevokeTokens(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := m.refreshRepo.Delete(cookie.Value); err != nil {
			return err
		}
	}
	m.clearCookie(w, AccessTokenCookie)
	m.clearCookie(w, RefreshTokenCookie)
	return nil
}

// GetAccessTokenFromCookie извлекает access-токен из куки запроса
func (m *TokenManager) GetAccessTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", fmt.Errorf("%w: access token cookie is missing", apperrors.ErrUnauthorized)
	}
	return cookie.Value, nil
}

// CleanupExpiredTokens удаляет истекшие refresh-токены, возвращает число удаленных
func (m *TokenManager) CleanupExpiredTokens() (int64, error) {
	return m.refreshRepo.DeleteExpired()
}

func (m *TokenManager) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   m.cookieSecure,
		HttpOnly: m.cookieHTTPOnly,
		SameSite: m.sameSite,
	})
}

func (m *TokenManager) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		MaxAge:   -1,
		Secure:   m.cookieSecure,
		HttpOnly: m.cookieHTTPOnly,
		SameSite: m.sameSite,
	})
}
