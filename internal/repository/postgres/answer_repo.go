package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// NextRespondentID возвращает MAX(user_id)+1 для опроса, 0 если ответов нет.
// Это чтение вне транзакции, поэтому для выдачи номера при записи
// не используется — см. StoreResponse.
func (r *AnswerRepo) NextRespondentID(surveyID uint) (int, error) {
	var next int
	err := r.db.Model(&entity.Answer{}).
		Where("survey_id = ?", surveyID).
		Select("COALESCE(MAX(user_id) + 1, 0)").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Store добавляет одну строку ответа
func (r *AnswerRepo) Store(answer *entity.Answer) error {
	if strings.TrimSpace(answer.Username) == "" {
		return fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
	}
	return r.db.Create(answer).Error
}

// StoreResponse атомарно сохраняет весь набор ответов одного респондента.
// Порядковый номер выдается атомарным инкрементом счетчика в строке опроса
// внутри той же транзакции, что и вставка ответов: два одновременных
// респондента получают разные номера, частичной записи не остается.
func (r *AnswerRepo) StoreResponse(surveyID uint, username string, answers []entity.Answer) (int, error) {
	if strings.TrimSpace(username) == "" {
		return 0, fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
	}

	var userID int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// UPDATE ... RETURNING выполняется одним оператором и блокирует
		// строку опроса до конца транзакции
		row := tx.Raw(
			"UPDATE surveys SET respondent_seq = respondent_seq + 1 WHERE id = ? RETURNING respondent_seq - 1",
			surveyID,
		).Row()
		if err := row.Scan(&userID); err != nil {
			return fmt.Errorf("failed to claim respondent id for survey %d: %w", surveyID, err)
		}

		for i := range answers {
			answers[i].SurveyID = surveyID
			answers[i].UserID = userID
			answers[i].Username = username
		}

		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("failed to store answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// GetByRespondent возвращает все ответы респондента, ближайшего к fromID
// в заданном направлении. Подзапрос повторяет обход без отдельной таблицы
// респондентов: MIN(user_id) >= fromID вперед, MAX(user_id) <= fromID назад.
func (r *AnswerRepo) GetByRespondent(surveyID uint, fromID int, dir repository.Direction) ([]entity.Answer, error) {
	sub := "SELECT MIN(user_id) FROM answers WHERE survey_id = ? AND user_id >= ?"
	if dir == repository.Backward {
		sub = "SELECT MAX(user_id) FROM answers WHERE survey_id = ? AND user_id <= ?"
	}

	var answers []entity.Answer
	err := r.db.
		Select("answers.*").
		Where("answers.survey_id = ? AND answers.user_id = ("+sub+")", surveyID, surveyID, fromID).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Order("questions.position").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// CountDistinctRespondents возвращает число уникальных респондентов опроса
func (r *AnswerRepo) CountDistinctRespondents(surveyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Answer{}).
		Where("survey_id = ?", surveyID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
