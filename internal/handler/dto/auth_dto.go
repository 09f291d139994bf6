package dto

import "github.com/yourusername/survey-api/internal/domain/entity"

// AdminResponse представляет администратора в формате для ответа клиенту
type AdminResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewAdminResponse создает DTO для администратора
func NewAdminResponse(admin *entity.Admin) AdminResponse {
	return AdminResponse{
		ID:    admin.ID,
		Email: admin.Email,
		Name:  admin.Name,
	}
}
