package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует repository.RefreshTokenRepository
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый репозиторий refresh-токенов
func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// Create сохраняет новый refresh-токен
func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByToken возвращает refresh-токен по значению
func (r *RefreshTokenRepo) GetByToken(token string) (*entity.RefreshToken, error) {
	var rt entity.RefreshToken
	err := r.db.Where("token = ?", token).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// Delete удаляет refresh-токен по значению
func (r *RefreshTokenRepo) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&entity.RefreshToken{}).Error
}

// DeleteByAdminID удаляет все refresh-токены администратора (logout everywhere)
func (r *RefreshTokenRepo) DeleteByAdminID(adminID uint) error {
	return r.db.Where("admin_id = ?", adminID).Delete(&entity.RefreshToken{}).Error
}

// DeleteExpired удаляет истекшие refresh-токены, возвращает число удаленных
func (r *RefreshTokenRepo) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&entity.RefreshToken{})
	return result.RowsAffected, result.Error
}
