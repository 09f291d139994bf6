package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// AuthService предоставляет методы аутентификации администраторов
type AuthService struct {
	adminRepo repository.AdminRepository
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(adminRepo repository.AdminRepository) (*AuthService, error) {
	if adminRepo == nil {
		return nil, fmt.Errorf("AdminRepository is required for AuthService")
	}
	return &AuthService{adminRepo: adminRepo}, nil
}

// Login проверяет учетные данные администратора.
// Неизвестный email и неверный пароль дают одну и ту же ошибку,
// чтобы не раскрывать существование аккаунта.
func (s *AuthService) Login(email, password string) (*entity.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: incorrect email or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !admin.CheckPassword(password) {
		return nil, fmt.Errorf("%w: incorrect email or password", apperrors.ErrUnauthorized)
	}
	return admin, nil
}

// GetAdminByID возвращает администратора по ID
func (s *AuthService) GetAdminByID(id uint) (*entity.Admin, error) {
	return s.adminRepo.GetByID(id)
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
