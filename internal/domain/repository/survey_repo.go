package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// SurveyRepository определяет методы для работы с опросами и их вопросами
type SurveyRepository interface {
	// Create сохраняет новый опрос. Пустой заголовок отклоняется
	// (дублирующая проверка на случай вызова мимо валидатора).
	Create(survey *entity.Survey) error

	// CreateWithQuestions атомарно сохраняет опрос вместе со всеми
	// вопросами: либо записывается все, либо ничего. Вопросам
	// проставляется SurveyID созданного опроса.
	CreateWithQuestions(survey *entity.Survey, questions []entity.Question) error

	GetByID(id uint) (*entity.Survey, error)

	// List возвращает все опросы всех администраторов
	List() ([]entity.Survey, error)

	// ListByOwner возвращает опросы администратора вместе с числом
	// уникальных респондентов каждого (группирующий запрос по ответам)
	ListByOwner(ownerID uint) ([]entity.SurveyWithResponses, error)

	// AddQuestion сохраняет один вопрос опроса.
	// Отклоняет min_ans > max_ans и max_ans == 0.
	AddQuestion(question *entity.Question) error

	// GetQuestions возвращает вопросы опроса в порядке отображения
	GetQuestions(surveyID uint) ([]entity.Question, error)
}
