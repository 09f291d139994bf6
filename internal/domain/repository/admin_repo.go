package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AdminRepository определяет методы для работы с администраторами
type AdminRepository interface {
	Create(admin *entity.Admin) error
	GetByID(id uint) (*entity.Admin, error)
	GetByEmail(email string) (*entity.Admin, error)
}
