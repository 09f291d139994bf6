package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// SurveyRepo реализует repository.SurveyRepository
type SurveyRepo struct {
	db *gorm.DB
}

// NewSurveyRepo создает новый репозиторий опросов
func NewSurveyRepo(db *gorm.DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

// Create сохраняет новый опрос
func (r *SurveyRepo) Create(survey *entity.Survey) error {
	// Дублирующая проверка: заголовок обязан быть не пустым,
	// даже если вызывающий код пропустил валидацию
	if !survey.HasTitle() {
		return fmt.Errorf("%w: survey title must not be empty", apperrors.ErrValidation)
	}
	return r.db.Create(survey).Error
}

// CreateWithQuestions атомарно сохраняет опрос вместе со всеми вопросами.
// Границы min/max каждого вопроса проверяются до открытия транзакции.
func (r *SurveyRepo) CreateWithQuestions(survey *entity.Survey, questions []entity.Question) error {
	if !survey.HasTitle() {
		return fmt.Errorf("%w: survey title must not be empty", apperrors.ErrValidation)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: survey must contain at least one question", apperrors.ErrValidation)
	}
	for i := range questions {
		if err := validateQuestionBounds(&questions[i]); err != nil {
			return err
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(survey).Error; err != nil {
			return fmt.Errorf("failed to create survey: %w", err)
		}
		for i := range questions {
			questions[i].SurveyID = survey.ID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to create questions: %w", err)
		}
		return nil
	})
}

// GetByID возвращает опрос по ID
func (r *SurveyRepo) GetByID(id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// List возвращает все опросы всех администраторов
func (r *SurveyRepo) List() ([]entity.Survey, error) {
	var surveys []entity.Survey
	err := r.db.Order("id").Find(&surveys).Error
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

// ListByOwner возвращает опросы администратора вместе с числом уникальных
// респондентов. Количество не хранится, а считается группирующим запросом:
// LEFT JOIN по таблице ответов + COUNT(DISTINCT user_id).
func (r *SurveyRepo) ListByOwner(ownerID uint) ([]entity.SurveyWithResponses, error) {
	var rows []entity.SurveyWithResponses
	err := r.db.Model(&entity.Survey{}).
		Select("surveys.*, COUNT(DISTINCT answers.user_id) AS responses").
		Joins("LEFT JOIN answers ON answers.survey_id = surveys.id").
		Where("surveys.owner_id = ?", ownerID).
		Group("surveys.id").
		Order("surveys.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddQuestion сохраняет один вопрос опроса
func (r *SurveyRepo) AddQuestion(question *entity.Question) error {
	if err := validateQuestionBounds(question); err != nil {
		return err
	}
	return r.db.Create(question).Error
}

// validateQuestionBounds проверяет базовые границы min/max вопроса
func validateQuestionBounds(question *entity.Question) error {
	if question.MaxAns == 0 {
		return fmt.Errorf("%w: max_ans must be at least 1", apperrors.ErrValidation)
	}
	if question.MinAns > question.MaxAns {
		return fmt.Errorf("%w: min_ans %d exceeds max_ans %d",
			apperrors.ErrValidation, question.MinAns, question.MaxAns)
	}
	return nil
}

// GetQuestions возвращает вопросы опроса в порядке отображения
func (r *SurveyRepo) GetQuestions(surveyID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("survey_id = ?", surveyID).Order("position").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
