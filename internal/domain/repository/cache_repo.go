package repository

import "time"

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error

	// SetJSON сохраняет структуру в кеше в формате JSON
	SetJSON(key string, value interface{}, expiration time.Duration) error
	// GetJSON читает структуру из кеша. Возвращает apperrors.ErrNotFound при промахе.
	GetJSON(key string, dest interface{}) error
}
