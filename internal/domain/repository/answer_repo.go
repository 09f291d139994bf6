package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// Direction задает направление обхода респондентов опроса
type Direction string

const (
	// Forward — к респонденту с минимальным user_id >= from
	Forward Direction = "forward"
	// Backward — к респонденту с максимальным user_id <= from
	Backward Direction = "backward"
)

// AnswerRepository определяет методы для работы с таблицей ответов.
// Отдельной сущности "отклик" нет: границы респондента восстанавливаются
// группировкой по (survey_id, user_id).
type AnswerRepository interface {
	// NextRespondentID возвращает MAX(user_id)+1 для опроса, 0 если
	// ответов еще нет. Только для чтения/диагностики: порядковый номер
	// при записи выдает StoreResponse атомарно.
	NextRespondentID(surveyID uint) (int, error)

	// Store добавляет одну строку ответа. Пустое имя респондента отклоняется.
	Store(answer *entity.Answer) error

	// StoreResponse атомарно сохраняет весь набор ответов одного
	// респондента: в одной транзакции выдает порядковый номер
	// (атомарный инкремент счетчика опроса) и вставляет все строки.
	// Возвращает выданный user_id.
	StoreResponse(surveyID uint, username string, answers []entity.Answer) (int, error)

	// GetByRespondent возвращает все ответы одного респондента,
	// ближайшего к fromID в заданном направлении: MIN(user_id) >= fromID
	// при Forward, MAX(user_id) <= fromID при Backward. Пустой срез,
	// если такого респондента нет (шаг за первый или последний).
	// Строки возвращаются в порядке вопросов опроса.
	GetByRespondent(surveyID uint, fromID int, dir Direction) ([]entity.Answer, error)

	// CountDistinctRespondents возвращает число уникальных респондентов опроса
	CountDistinctRespondents(surveyID uint) (int64, error)
}
