package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// AdminRepo реализует repository.AdminRepository
type AdminRepo struct {
	db *gorm.DB
}

// NewAdminRepo создает новый репозиторий администраторов
func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Create сохраняет нового администратора
func (r *AdminRepo) Create(admin *entity.Admin) error {
	return r.db.Create(admin).Error
}

// GetByID возвращает администратора по ID
func (r *AdminRepo) GetByID(id uint) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetByEmail возвращает администратора по email
func (r *AdminRepo) GetByEmail(email string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}
