package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// RefreshTokenRepository определяет методы для работы с refresh-токенами
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByToken(token string) (*entity.RefreshToken, error)
	Delete(token string) error
	DeleteByAdminID(adminID uint) error
	DeleteExpired() (int64, error)
}
