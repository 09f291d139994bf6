package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос опроса.
// Вопрос с вариантами ответа хранит подписи вариантов в Options;
// у свободного текстового вопроса Options пустой.
type Question struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SurveyID uint   `gorm:"not null;index" json:"survey_id"`
	Text     string `gorm:"size:500;not null" json:"text"`

	// Position — порядок отображения вопроса внутри опроса.
	// Сохраняется явно: порядок строк при вставке базой не гарантируется.
	Position int `gorm:"not null" json:"position"`

	Options StringArray `gorm:"type:jsonb" json:"options"`

	// MinAns и MaxAns — допустимый диапазон числа выбранных вариантов
	// (для текстового вопроса MinAns == 0 означает необязательный ответ).
	MinAns int `gorm:"not null;default:0" json:"min_ans"`
	MaxAns int `gorm:"not null;default:1" json:"max_ans"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsFreeText возвращает true для свободного текстового вопроса (без вариантов)
func (q *Question) IsFreeText() bool {
	return len(q.Options) == 0
}

// IsOptional возвращает true, если ответ на вопрос можно не давать
func (q *Question) IsOptional() bool {
	return q.MinAns == 0
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// InRange проверяет, попадает ли число выбранных вариантов в диапазон [MinAns, MaxAns]
func (q *Question) InRange(count int) bool {
	return count >= q.MinAns && count <= q.MaxAns
}
