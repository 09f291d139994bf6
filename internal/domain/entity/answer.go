package entity

import "time"

// Answer представляет один ответ респондента на один вопрос опроса.
// Респондент — не отдельная сущность: его определяет пара
// (survey_id, user_id), где user_id — порядковый номер внутри опроса,
// выдаваемый с нуля при первой записи ответов.
type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SurveyID   uint   `gorm:"not null;index:idx_answers_survey_user" json:"survey_id"`
	QuestionID uint   `gorm:"not null" json:"question_id"`
	UserID     int    `gorm:"not null;index:idx_answers_survey_user" json:"user_id"`
	Username   string `gorm:"size:100;not null" json:"username"`

	// Value — закодированный ответ: для вопроса с вариантами строка флагов
	// вида "1;0", для текстового вопроса сам текст.
	Value string `gorm:"column:answer;size:500;not null" json:"answer"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
