package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/pkg/selection"
)

// Коды нарушений валидации черновика опроса и отправляемых ответов
const (
	CodeEmptyTitle            = "EmptyTitle"
	CodeNoQuestions           = "NoQuestions"
	CodeEmptyQuestionText     = "EmptyQuestionText"
	CodeMinMaxInverted        = "MinMaxInverted"
	CodeZeroMaxAns            = "ZeroMaxAns"
	CodeMinExceedsOptions     = "MinExceedsOptions"
	CodeEmptyUsername         = "EmptyUsername"
	CodeAnswerCountOutOfRange = "AnswerCountOutOfRange"
	CodeTextAnswerInvalid     = "TextAnswerInvalid"
	CodeAnswerSetMismatch     = "AnswerSetMismatch"
)

// Violation — одно нарушение валидации. Question = -1, если нарушение
// относится к опросу в целом, иначе индекс вопроса (с нуля).
type Violation struct {
	Code     string `json:"code"`
	Question int    `json:"question"`
	Message  string `json:"message"`
}

// Error реализует интерфейс error
func (v *Violation) Error() string {
	if v.Question < 0 {
		return fmt.Sprintf("%s: %s", v.Code, v.Message)
	}
	return fmt.Sprintf("%s (question %d): %s", v.Code, v.Question, v.Message)
}

// Unwrap позволяет errors.Is находить apperrors.ErrValidation
func (v *Violation) Unwrap() error {
	return apperrors.ErrValidation
}

// Violations извлекает список нарушений из ошибки валидации, в том числе
// из обернутой через %w. Возвращает nil, если ошибка не содержит нарушений.
func Violations(err error) []*Violation {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var v *Violation
		if errors.As(err, &v) {
			return []*Violation{v}
		}
		return nil
	}
	var out []*Violation
	for _, e := range merr.Errors {
		var v *Violation
		if errors.As(e, &v) {
			out = append(out, v)
		}
	}
	return out
}

// QuestionDraft — черновик вопроса при публикации опроса.
// Options пустой для свободного текстового вопроса.
type QuestionDraft struct {
	Text    string
	Options []string
	MinAns  int
	MaxAns  int
}

// ValidateSurveyDraft проверяет черновик опроса и собирает ВСЕ нарушения,
// не останавливаясь на первом, чтобы вызывающий код мог показать их разом.
func ValidateSurveyDraft(title string, drafts []QuestionDraft) error {
	var result *multierror.Error

	if strings.TrimSpace(title) == "" {
		result = multierror.Append(result, &Violation{
			Code: CodeEmptyTitle, Question: -1,
			Message: "survey title must not be empty",
		})
	}
	if len(drafts) == 0 {
		result = multierror.Append(result, &Violation{
			Code: CodeNoQuestions, Question: -1,
			Message: "survey must contain at least one question",
		})
	}

	for i, d := range drafts {
		if strings.TrimSpace(d.Text) == "" {
			result = multierror.Append(result, &Violation{
				Code: CodeEmptyQuestionText, Question: i,
				Message: "question text must not be empty",
			})
		}
		if d.MaxAns == 0 {
			result = multierror.Append(result, &Violation{
				Code: CodeZeroMaxAns, Question: i,
				Message: "max_ans must be at least 1",
			})
		} else if d.MinAns > d.MaxAns {
			result = multierror.Append(result, &Violation{
				Code: CodeMinMaxInverted, Question: i,
				Message: fmt.Sprintf("min_ans %d exceeds max_ans %d", d.MinAns, d.MaxAns),
			})
		}
		// Невыполнимое требование отлавливается при создании, а не при
		// отправке ответов: такой вопрос нельзя было бы корректно заполнить
		if len(d.Options) > 0 && d.MinAns > len(d.Options) {
			result = multierror.Append(result, &Violation{
				Code: CodeMinExceedsOptions, Question: i,
				Message: fmt.Sprintf("min_ans %d exceeds option count %d", d.MinAns, len(d.Options)),
			})
		}
	}

	return result.ErrorOrNil()
}

// ValidateSubmission проверяет набор закодированных ответов респондента
// против вопросов опроса. questions и answers выровнены по индексу.
func ValidateSubmission(questions []entity.Question, answers []string, username string) error {
	var result *multierror.Error

	if strings.TrimSpace(username) == "" {
		result = multierror.Append(result, &Violation{
			Code: CodeEmptyUsername, Question: -1,
			Message: "username must not be empty",
		})
	}
	if len(answers) != len(questions) {
		result = multierror.Append(result, &Violation{
			Code: CodeAnswerSetMismatch, Question: -1,
			Message: fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)),
		})
		return result.ErrorOrNil()
	}

	for i, q := range questions {
		a := answers[i]
		if q.IsFreeText() {
			// Пустой текст допустим только для необязательного вопроса
			if a == "" {
				if !q.IsOptional() {
					result = multierror.Append(result, &Violation{
						Code: CodeTextAnswerInvalid, Question: i,
						Message: "answer is required",
					})
				}
				continue
			}
			if len([]rune(a)) > selection.MaxTextAnswerLen {
				result = multierror.Append(result, &Violation{
					Code: CodeTextAnswerInvalid, Question: i,
					Message: fmt.Sprintf("answer exceeds %d characters", selection.MaxTextAnswerLen),
				})
			}
			continue
		}

		if count := selection.Count(a); !q.InRange(count) {
			result = multierror.Append(result, &Violation{
				Code: CodeAnswerCountOutOfRange, Question: i,
				Message: fmt.Sprintf("selected %d options, allowed range [%d, %d]",
					count, q.MinAns, q.MaxAns),
			})
		}
	}

	return result.ErrorOrNil()
}
