package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/pkg/selection"
)

// Ключи и сроки жизни кеша. Вопросы опроса неизменяемы после публикации,
// поэтому их можно кешировать надолго.
const (
	surveyListCacheKey   = "surveys:all"
	surveyListCacheTTL   = 30 * time.Second
	questionsCacheKeyFmt = "survey:%d:questions"
	questionsCacheTTL    = 10 * time.Minute
)

// SurveyService предоставляет методы для работы с опросами и откликами
type SurveyService struct {
	surveyRepo repository.SurveyRepository
	answerRepo repository.AnswerRepository
	cacheRepo  repository.CacheRepository
}

// NewSurveyService создает новый сервис опросов
func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	answerRepo repository.AnswerRepository,
	cacheRepo repository.CacheRepository,
) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		answerRepo: answerRepo,
		cacheRepo:  cacheRepo,
	}
}

// PublishSurvey валидирует черновик и атомарно сохраняет опрос вместе со
// всеми вопросами: либо записывается все, либо ничего.
func (s *SurveyService) PublishSurvey(ownerID uint, title string, drafts []QuestionDraft) (uint, error) {
	if err := ValidateSurveyDraft(title, drafts); err != nil {
		return 0, err
	}

	survey := &entity.Survey{
		Title:   title,
		OwnerID: ownerID,
	}

	questions := make([]entity.Question, 0, len(drafts))
	for i, d := range drafts {
		// Подписи вариантов очищаются от разделителя один раз,
		// при создании вопроса
		options := make(entity.StringArray, 0, len(d.Options))
		for _, label := range d.Options {
			options = append(options, selection.SanitizeLabel(label))
		}
		questions = append(questions, entity.Question{
			Text:     d.Text,
			Position: i,
			Options:  options,
			MinAns:   d.MinAns,
			MaxAns:   d.MaxAns,
		})
	}

	if err := s.surveyRepo.CreateWithQuestions(survey, questions); err != nil {
		return 0, err
	}

	s.invalidateSurveyCaches(survey.ID)
	log.Printf("[SurveyService] Опубликован опрос ID=%d (%d вопросов) администратора ID=%d",
		survey.ID, len(drafts), ownerID)
	return survey.ID, nil
}

// ListSurveys возвращает все опросы (публичный список)
func (s *SurveyService) ListSurveys() ([]entity.Survey, error) {
	if s.cacheRepo != nil {
		var cached []entity.Survey
		if err := s.cacheRepo.GetJSON(surveyListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	surveys, err := s.surveyRepo.List()
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(surveyListCacheKey, surveys, surveyListCacheTTL); err != nil {
			log.Printf("[SurveyService] Не удалось закешировать список опросов: %v", err)
		}
	}
	return surveys, nil
}

// ListOwnerSurveys возвращает опросы администратора с числом респондентов.
// Счетчики меняются при каждом отклике, поэтому список не кешируется.
func (s *SurveyService) ListOwnerSurveys(ownerID uint) ([]entity.SurveyWithResponses, error) {
	return s.surveyRepo.ListByOwner(ownerID)
}

// GetSurvey возвращает опрос по ID
func (s *SurveyService) GetSurvey(surveyID uint) (*entity.Survey, error) {
	return s.surveyRepo.GetByID(surveyID)
}

// GetQuestions возвращает вопросы опроса в порядке отображения
func (s *SurveyService) GetQuestions(surveyID uint) ([]entity.Question, error) {
	cacheKey := fmt.Sprintf(questionsCacheKeyFmt, surveyID)
	if s.cacheRepo != nil {
		var cached []entity.Question
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	// Проверяем существование опроса, чтобы отличать "опрос без вопросов"
	// от "опроса нет вовсе"
	if _, err := s.surveyRepo.GetByID(surveyID); err != nil {
		return nil, err
	}

	questions, err := s.surveyRepo.GetQuestions(surveyID)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, questions, questionsCacheTTL); err != nil {
			log.Printf("[SurveyService] Не удалось закешировать вопросы опроса %d: %v", surveyID, err)
		}
	}
	return questions, nil
}

// SubmitResponse валидирует и атомарно сохраняет весь набор ответов одного
// респондента. questionIDs и answers — параллельные массивы; ответы должны
// покрывать каждый вопрос опроса ровно один раз.
func (s *SurveyService) SubmitResponse(surveyID uint, username string, questionIDs []uint, answers []string) (int, error) {
	if len(questionIDs) != len(answers) {
		return 0, fmt.Errorf("%w: question_ids and answers must have equal length", apperrors.ErrValidation)
	}

	questions, err := s.GetQuestions(surveyID)
	if err != nil {
		return 0, err
	}

	// Переупорядочиваем присланные ответы по вопросам опроса
	byQuestion := make(map[uint]string, len(answers))
	for i, qid := range questionIDs {
		if _, dup := byQuestion[qid]; dup {
			return 0, fmt.Errorf("%w: duplicate answer for question %d", apperrors.ErrValidation, qid)
		}
		byQuestion[qid] = answers[i]
	}

	ordered := make([]string, len(questions))
	for i, q := range questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			return 0, fmt.Errorf("%w: missing answer for question %d", apperrors.ErrValidation, q.ID)
		}
		ordered[i] = a
	}
	if len(byQuestion) != len(questions) {
		return 0, fmt.Errorf("%w: answers reference unknown questions", apperrors.ErrValidation)
	}

	if err := ValidateSubmission(questions, ordered, username); err != nil {
		return 0, err
	}

	rows := make([]entity.Answer, len(questions))
	for i, q := range questions {
		rows[i] = entity.Answer{
			QuestionID: q.ID,
			Value:      ordered[i],
		}
	}

	userID, err := s.answerRepo.StoreResponse(surveyID, username, rows)
	if err != nil {
		return 0, err
	}

	log.Printf("[SurveyService] Опрос ID=%d: сохранен отклик респондента #%d (%d ответов)",
		surveyID, userID, len(rows))
	return userID, nil
}

// RespondentPage — все ответы одного респондента для постраничного просмотра
type RespondentPage struct {
	UserID   int             `json:"user_id"`
	Username string          `json:"username"`
	Answers  []entity.Answer `json:"answers"`
}

// GetRespondentPage возвращает ответы респондента, ближайшего к fromID в
// заданном направлении. Имя респондента берется из первой строки ответов.
// Возвращает apperrors.ErrNotFound при шаге за первый или последний отклик.
func (s *SurveyService) GetRespondentPage(surveyID uint, fromID int, dir repository.Direction) (*RespondentPage, error) {
	answers, err := s.answerRepo.GetByRespondent(surveyID, fromID, dir)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &RespondentPage{
		UserID:   answers[0].UserID,
		Username: answers[0].Username,
		Answers:  answers,
	}, nil
}

// CollectResponses возвращает вопросы опроса и все отклики подряд,
// обходя респондентов вперед от нулевого. Используется выгрузкой.
// Верхняя граница обхода известна заранее (MAX(user_id)+1), поэтому
// обход не делает лишний запрос за последним респондентом.
func (s *SurveyService) CollectResponses(surveyID uint) ([]entity.Question, []RespondentPage, error) {
	questions, err := s.GetQuestions(surveyID)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.answerRepo.CountDistinctRespondents(surveyID)
	if err != nil {
		return nil, nil, err
	}
	if total == 0 {
		return questions, nil, nil
	}

	bound, err := s.answerRepo.NextRespondentID(surveyID)
	if err != nil {
		return nil, nil, err
	}

	pages := make([]RespondentPage, 0, total)
	for fromID := 0; fromID < bound; {
		page, err := s.GetRespondentPage(surveyID, fromID, repository.Forward)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				break
			}
			return nil, nil, err
		}
		pages = append(pages, *page)
		fromID = page.UserID + 1
	}
	return questions, pages, nil
}

// invalidateSurveyCaches сбрасывает кеши, затронутые публикацией опроса
func (s *SurveyService) invalidateSurveyCaches(surveyID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(surveyListCacheKey); err != nil {
		log.Printf("[SurveyService] Не удалось сбросить кеш списка опросов: %v", err)
	}
	if err := s.cacheRepo.Delete(fmt.Sprintf(questionsCacheKeyFmt, surveyID)); err != nil {
		log.Printf("[SurveyService] Не удалось сбросить кеш вопросов опроса %d: %v", surveyID, err)
	}
}
