package dto

import (
	"time"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/pkg/selection"
	"github.com/yourusername/survey-api/internal/service"
)

// SurveyResponse представляет опрос в формате для ответа клиенту
type SurveyResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uint      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminSurveyResponse — опрос в списке администратора с числом респондентов
type AdminSurveyResponse struct {
	SurveyResponse
	Responses int64 `json:"responses"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// PossibleAnswers дублирует Options в исторической форме строки,
// соединенной разделителем, которую ожидают старые клиенты.
type QuestionResponse struct {
	ID              uint     `json:"id"`
	SurveyID        uint     `json:"survey_id"`
	Position        int      `json:"position"`
	Text            string   `json:"text"`
	Options         []string `json:"options,omitempty"`
	PossibleAnswers string   `json:"possible_answers,omitempty"`
	MinAns          int      `json:"min_ans"`
	MaxAns          int      `json:"max_ans"`
}

// AnswerResponse представляет одну строку ответа респондента
type AnswerResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Answer     string `json:"answer"`
	SurveyID   uint   `json:"survey_id"`
	QuestionID uint   `json:"question_id"`
	UserID     int    `json:"user_id"`
}

// RespondentPageResponse — страница ответов одного респондента
type RespondentPageResponse struct {
	UserID   int              `json:"user_id"`
	Username string           `json:"username"`
	Answers  []AnswerResponse `json:"answers"`
}

// NewSurveyResponse создает DTO для опроса
func NewSurveyResponse(s *entity.Survey) SurveyResponse {
	return SurveyResponse{
		ID:        s.ID,
		Title:     s.Title,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	}
}

// NewListSurveyResponse создает DTO для списка опросов
func NewListSurveyResponse(surveys []entity.Survey) []SurveyResponse {
	out := make([]SurveyResponse, 0, len(surveys))
	for i := range surveys {
		out = append(out, NewSurveyResponse(&surveys[i]))
	}
	return out
}

// NewAdminSurveyListResponse создает DTO для списка опросов администратора
func NewAdminSurveyListResponse(rows []entity.SurveyWithResponses) []AdminSurveyResponse {
	out := make([]AdminSurveyResponse, 0, len(rows))
	for i := range rows {
		out = append(out, AdminSurveyResponse{
			SurveyResponse: NewSurveyResponse(&rows[i].Survey),
			Responses:      rows[i].Responses,
		})
	}
	return out
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:              q.ID,
		SurveyID:        q.SurveyID,
		Position:        q.Position,
		Text:            q.Text,
		Options:         q.Options,
		PossibleAnswers: selection.JoinOptions(q.Options),
		MinAns:          q.MinAns,
		MaxAns:          q.MaxAns,
	}
}

// NewQuestionListResponse создает DTO для списка вопросов
func NewQuestionListResponse(questions []entity.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, NewQuestionResponse(&questions[i]))
	}
	return out
}

// NewAnswerResponse создает DTO для строки ответа
func NewAnswerResponse(a *entity.Answer) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		Username:   a.Username,
		Answer:     a.Value,
		SurveyID:   a.SurveyID,
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
	}
}

// NewRespondentPageResponse создает DTO для страницы респондента
func NewRespondentPageResponse(page *service.RespondentPage) RespondentPageResponse {
	answers := make([]AnswerResponse, 0, len(page.Answers))
	for i := range page.Answers {
		answers = append(answers, NewAnswerResponse(&page.Answers[i]))
	}
	return RespondentPageResponse{
		UserID:   page.UserID,
		Username: page.Username,
		Answers:  answers,
	}
}
