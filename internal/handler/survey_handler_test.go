package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/middleware"
	"github.com/yourusername/survey-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================================================
// Моки репозиториев — сервисный слой подключается к хендлеру напрямую
// ============================================================================

type mockSurveyRepo struct {
	mock.Mock
}

func (m *mockSurveyRepo) Create(survey *entity.Survey) error {
	return m.Called(survey).Error(0)
}

func (m *mockSurveyRepo) CreateWithQuestions(survey *entity.Survey, questions []entity.Question) error {
	return m.Called(survey, questions).Error(0)
}

func (m *mockSurveyRepo) GetByID(id uint) (*entity.Survey, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Survey), args.Error(1)
}

func (m *mockSurveyRepo) List() ([]entity.Survey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Survey), args.Error(1)
}

func (m *mockSurveyRepo) ListByOwner(ownerID uint) ([]entity.SurveyWithResponses, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SurveyWithResponses), args.Error(1)
}

func (m *mockSurveyRepo) AddQuestion(question *entity.Question) error {
	return m.Called(question).Error(0)
}

func (m *mockSurveyRepo) GetQuestions(surveyID uint) ([]entity.Question, error) {
	args := m.Called(surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

type mockAnswerRepo struct {
	mock.Mock
}

func (m *mockAnswerRepo) NextRespondentID(surveyID uint) (int, error) {
	args := m.Called(surveyID)
	return args.Int(0), args.Error(1)
}

func (m *mockAnswerRepo) Store(answer *entity.Answer) error {
	return m.Called(answer).Error(0)
}

func (m *mockAnswerRepo) StoreResponse(surveyID uint, username string, answers []entity.Answer) (int, error) {
	args := m.Called(surveyID, username, answers)
	return args.Int(0), args.Error(1)
}

func (m *mockAnswerRepo) GetByRespondent(surveyID uint, fromID int, dir repository.Direction) ([]entity.Answer, error) {
	args := m.Called(surveyID, fromID, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *mockAnswerRepo) CountDistinctRespondents(surveyID uint) (int64, error) {
	args := m.Called(surveyID)
	return args.Get(0).(int64), args.Error(1)
}

// newAuthedJSONContext создает *gin.Context с JSON body и администратором в контексте
func newAuthedJSONContext(method, path string, body interface{}, adminID uint) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(middleware.ContextAdminID, adminID)
	return c, w
}

// ============================================================================
// CreateSurvey
// ============================================================================

func TestCreateSurvey_Success_ReturnsEmptyOK(t *testing.T) {
	surveyRepo := new(mockSurveyRepo)
	answerRepo := new(mockAnswerRepo)

	surveyRepo.On("CreateWithQuestions", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Survey).ID = 5
		}).
		Return(nil)

	handler := NewSurveyHandler(service.NewSurveyService(surveyRepo, answerRepo, nil))

	c, w := newAuthedJSONContext(http.MethodPost, "/api/survey", map[string]interface{}{
		"title":   "Опрос о столовой",
		"text":    []string{"Нравится ли меню?", "Пожелания"},
		"answers": []string{"Да;Нет", ""},
		"min_ans": []int{1, 0},
		"max_ans": []int{1, 1},
	}, 1)

	handler.CreateSurvey(c)

	// Клиент проверяет только статус: 200 без тела
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	surveyRepo.AssertExpectations(t)
}

func TestCreateSurvey_InvalidDraft_ReturnsAllViolations(t *testing.T) {
	surveyRepo := new(mockSurveyRepo)
	answerRepo := new(mockAnswerRepo)
	handler := NewSurveyHandler(service.NewSurveyService(surveyRepo, answerRepo, nil))

	// Два нарушения сразу: пустой текст вопроса и min_ans > max_ans
	c, w := newAuthedJSONContext(http.MethodPost, "/api/survey", map[string]interface{}{
		"title":   "Опрос",
		"text":    []string{"", "Выберите день"},
		"answers": []string{"Да;Нет", "Пн;Вт"},
		"min_ans": []int{0, 2},
		"max_ans": []int{1, 1},
	}, 1)

	handler.CreateSurvey(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Data is not correct!", resp["error"])

	violations, ok := resp["violations"].([]interface{})
	require.True(t, ok, "ожидается массив violations: %s", w.Body.String())
	assert.Len(t, violations, 2)

	// До записи дело не доходит
	surveyRepo.AssertNotCalled(t, "CreateWithQuestions", mock.Anything, mock.Anything)
}

func TestCreateSurvey_ArrayLengthMismatch(t *testing.T) {
	handler := NewSurveyHandler(service.NewSurveyService(new(mockSurveyRepo), new(mockAnswerRepo), nil))

	c, w := newAuthedJSONContext(http.MethodPost, "/api/survey", map[string]interface{}{
		"title":   "Опрос",
		"text":    []string{"Вопрос 1", "Вопрос 2"},
		"answers": []string{"Да;Нет"},
		"min_ans": []int{0},
		"max_ans": []int{1},
	}, 1)

	handler.CreateSurvey(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
