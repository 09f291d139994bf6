package entity

import "time"

// RefreshToken представляет refresh-токен сессии администратора
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired проверяет, истек ли токен
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
