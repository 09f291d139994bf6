package entity

import (
	"strings"
	"time"
)

// Survey представляет опрос, созданный администратором.
// Опрос неизменяем после публикации: редактирования и удаления нет.
type Survey struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:200;not null" json:"title"`
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`

	// RespondentSeq — счетчик порядковых номеров респондентов.
	// Инкрементируется атомарно в транзакции сохранения ответов,
	// чтобы два одновременных респондента не получили один номер.
	RespondentSeq int `gorm:"not null;default:0" json:"-"`

	Questions []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Survey) TableName() string {
	return "surveys"
}

// HasTitle проверяет, что заголовок не пустой и не состоит из пробелов
func (s *Survey) HasTitle() bool {
	return strings.TrimSpace(s.Title) != ""
}

// SurveyWithResponses — опрос вместе с числом уникальных респондентов.
// Количество считается группирующим запросом по таблице ответов и не хранится.
type SurveyWithResponses struct {
	Survey
	Responses int64 `json:"responses"`
}
