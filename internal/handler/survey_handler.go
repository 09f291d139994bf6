package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/middleware"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/pkg/selection"
	"github.com/yourusername/survey-api/internal/service"
)

// SurveyHandler обрабатывает запросы, связанные с опросами и откликами
type SurveyHandler struct {
	surveyService *service.SurveyService
}

// NewSurveyHandler создает новый обработчик опросов
func NewSurveyHandler(surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// ListSurveys обрабатывает GET /api/surveys — публичный список всех опросов
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	surveys, err := h.surveyService.ListSurveys()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListSurveyResponse(surveys))
}

// ListAdminSurveys обрабатывает GET /api/admin-surveys/:id —
// опросы администратора с числом респондентов каждого
func (h *SurveyHandler) ListAdminSurveys(c *gin.Context) {
	ownerID := c.MustGet("ownerID").(uint) // Получаем из контекста

	// Администратор видит только собственные опросы
	if ownerID != middleware.AdminID(c) {
		handleError(c, apperrors.ErrForbidden)
		return
	}

	rows, err := h.surveyService.ListOwnerSurveys(ownerID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminSurveyListResponse(rows))
}

// GetQuestions обрабатывает GET /api/survey/:id/questions
func (h *SurveyHandler) GetQuestions(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint) // Получаем из контекста

	questions, err := h.surveyService.GetQuestions(surveyID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionListResponse(questions))
}

// CreateSurveyRequest представляет запрос на публикацию опроса.
// Вопросы передаются параллельными массивами; Answers[i] — подписи
// вариантов, соединенные разделителем, или пустая строка для
// свободного текстового вопроса.
type CreateSurveyRequest struct {
	Title   string   `json:"title" binding:"required"`
	Text    []string `json:"text" binding:"required"`
	Answers []string `json:"answers" binding:"required"`
	MinAns  []int    `json:"min_ans" binding:"required"`
	MaxAns  []int    `json:"max_ans" binding:"required"`
}

// CreateSurvey обрабатывает POST /api/survey
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := len(req.Text)
	if len(req.Answers) != n || len(req.MinAns) != n || len(req.MaxAns) != n {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question arrays must have equal length"})
		return
	}

	drafts := make([]service.QuestionDraft, 0, n)
	for i := 0; i < n; i++ {
		drafts = append(drafts, service.QuestionDraft{
			Text:    req.Text[i],
			Options: selection.SplitOptions(req.Answers[i]),
			MinAns:  req.MinAns[i],
			MaxAns:  req.MaxAns[i],
		})
	}

	if _, err := h.surveyService.PublishSurvey(middleware.AdminID(c), req.Title, drafts); err != nil {
		handleError(c, err)
		return
	}

	// Клиент проверяет только статус, тело не нужно
	c.Status(http.StatusOK)
}

// SubmitAnswersRequest представляет анонимную отправку ответов.
// QuestionIDs и Answers — параллельные массивы.
type SubmitAnswersRequest struct {
	User        string   `json:"user" binding:"required"`
	SurveyID    uint     `json:"survey_id" binding:"required"`
	QuestionIDs []uint   `json:"question_ids" binding:"required"`
	Answers     []string `json:"answers" binding:"required"`
}

// SubmitAnswers обрабатывает POST /api/answer-survey
func (h *SurveyHandler) SubmitAnswers(c *gin.Context) {
	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.surveyService.SubmitResponse(req.SurveyID, req.User, req.QuestionIDs, req.Answers)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// GetRespondentAnswers обрабатывает GET /api/answer-survey/:surveyId/:fromUserId/:direction.
// Направление: "next"/"prev"; числовые "1"/"0" поддерживаются для
// обратной совместимости со старым клиентом.
func (h *SurveyHandler) GetRespondentAnswers(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint) // Получаем из контекста
	fromID := c.MustGet("fromUserID").(int)

	// Отклики видит только владелец опроса
	survey, err := h.surveyService.GetSurvey(surveyID)
	if err != nil {
		handleError(c, err)
		return
	}
	if survey.OwnerID != middleware.AdminID(c) {
		handleError(c, apperrors.ErrForbidden)
		return
	}

	var dir repository.Direction
	switch c.Param("direction") {
	case "next", "1":
		dir = repository.Forward
	case "prev", "0":
		dir = repository.Backward
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid direction"})
		return
	}

	page, err := h.surveyService.GetRespondentPage(surveyID, fromID, dir)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Шаг за первый или последний отклик — пустая страница, не ошибка
			c.JSON(http.StatusOK, dto.RespondentPageResponse{
				UserID:  -1,
				Answers: []dto.AnswerResponse{},
			})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRespondentPageResponse(page))
}

// ExportResponses обрабатывает GET /api/survey/:id/export?format=csv|xlsx —
// выгрузку всех откликов опроса: строка на респондента, колонка на вопрос
func (h *SurveyHandler) ExportResponses(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint) // Получаем из контекста

	survey, err := h.surveyService.GetSurvey(surveyID)
	if err != nil {
		handleError(c, err)
		return
	}
	if survey.OwnerID != middleware.AdminID(c) {
		handleError(c, apperrors.ErrForbidden)
		return
	}

	questions, pages, err := h.surveyService.CollectResponses(surveyID)
	if err != nil {
		handleError(c, err)
		return
	}

	header := make([]string, 0, len(questions)+2)
	header = append(header, "user_id", "username")
	for _, q := range questions {
		header = append(header, q.Text)
	}

	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("%d", page.UserID), page.Username)
		byQuestion := make(map[uint]string, len(page.Answers))
		for _, a := range page.Answers {
			byQuestion[a.QuestionID] = a.Value
		}
		for i := range questions {
			row = append(row, renderAnswer(&questions[i], byQuestion[questions[i].ID]))
		}
		rows = append(rows, row)
	}

	filename := fmt.Sprintf("survey_%d_responses", surveyID)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		h.writeCSV(c, filename, header, rows)
	case "xlsx":
		h.writeXLSX(c, filename, header, rows)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, use csv or xlsx"})
	}
}

// renderAnswer переводит хранимую форму ответа в человекочитаемый вид:
// для вопроса с вариантами — подписи выбранных вариантов
func renderAnswer(q *entity.Question, value string) string {
	if q.IsFreeText() {
		return value
	}
	var labels []string
	for _, idx := range selection.SelectedIndexes(value) {
		if idx < len(q.Options) {
			labels = append(labels, q.Options[idx])
		}
	}
	return strings.Join(labels, ", ")
}

// writeCSV отдает выгрузку в формате CSV.
// encoding/csv корректно экранирует запятые и кавычки.
func (h *SurveyHandler) writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(header); err != nil {
		log.Printf("[SurveyHandler] Ошибка записи CSV заголовка: %v", err)
		return
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Printf("[SurveyHandler] Ошибка записи CSV строки: %v", err)
			return
		}
	}
	writer.Flush()
}

// writeXLSX отдает выгрузку в формате Excel
func (h *SurveyHandler) writeXLSX(c *gin.Context, filename string, header []string, rows [][]string) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[SurveyHandler] Ошибка закрытия xlsx файла: %v", err)
		}
	}()

	sheet := "Responses"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for r, row := range rows {
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheet, cell, val)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[SurveyHandler] Ошибка записи xlsx: %v", err)
	}
}
