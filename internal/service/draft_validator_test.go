package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

func codes(err error) []string {
	var out []string
	for _, v := range Violations(err) {
		out = append(out, v.Code)
	}
	return out
}

func TestValidateSurveyDraft_Valid(t *testing.T) {
	err := ValidateSurveyDraft("Обеденный опрос", []QuestionDraft{
		{Text: "Выберите день", Options: []string{"Пн", "Вт"}, MinAns: 1, MaxAns: 1},
		{Text: "Комментарий", MinAns: 0, MaxAns: 1},
	})
	assert.NoError(t, err)
}

func TestValidateSurveyDraft_EmptyTitle(t *testing.T) {
	err := ValidateSurveyDraft("   ", []QuestionDraft{
		{Text: "Вопрос", MinAns: 0, MaxAns: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation) || len(Violations(err)) > 0)
	assert.Contains(t, codes(err), CodeEmptyTitle)
}

func TestValidateSurveyDraft_NoQuestions(t *testing.T) {
	err := ValidateSurveyDraft("Опрос", nil)
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeNoQuestions)
}

func TestValidateSurveyDraft_MinMaxInverted(t *testing.T) {
	// min_ans=2, max_ans=1 отклоняется независимо от остальных полей
	err := ValidateSurveyDraft("Опрос", []QuestionDraft{
		{Text: "Вопрос", Options: []string{"A", "B", "C"}, MinAns: 2, MaxAns: 1},
	})
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeMinMaxInverted)
}

func TestValidateSurveyDraft_MinExceedsOptions(t *testing.T) {
	err := ValidateSurveyDraft("Опрос", []QuestionDraft{
		{Text: "Вопрос", Options: []string{"A", "B"}, MinAns: 3, MaxAns: 3},
	})
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeMinExceedsOptions)
}

func TestValidateSurveyDraft_AggregatesAllViolations(t *testing.T) {
	// Все нарушения собираются за один проход, без остановки на первом
	err := ValidateSurveyDraft("", []QuestionDraft{
		{Text: "", MinAns: 2, MaxAns: 1},
		{Text: "Нормальный вопрос", Options: []string{"A"}, MaxAns: 0},
	})
	require.Error(t, err)

	got := codes(err)
	assert.Contains(t, got, CodeEmptyTitle)
	assert.Contains(t, got, CodeEmptyQuestionText)
	assert.Contains(t, got, CodeMinMaxInverted)
	assert.Contains(t, got, CodeZeroMaxAns)
	assert.GreaterOrEqual(t, len(got), 4, "должны быть собраны все нарушения сразу")
}

func TestViolations_SurvivesWrapping(t *testing.T) {
	err := ValidateSurveyDraft("", nil)
	require.Error(t, err)

	// Нарушения извлекаются и из ошибки, обернутой вызывающим кодом
	wrapped := fmt.Errorf("publish survey: %w", err)
	assert.ElementsMatch(t, []string{CodeEmptyTitle, CodeNoQuestions}, codes(wrapped))
	assert.True(t, errors.Is(wrapped, apperrors.ErrValidation))

	// Одиночное нарушение вне multierror тоже находится через обертку
	single := fmt.Errorf("store question: %w", &Violation{
		Code: CodeZeroMaxAns, Question: 0, Message: "max_ans must be at least 1",
	})
	assert.Equal(t, []string{CodeZeroMaxAns}, codes(single))
}

func TestValidateSubmission_SelectableInRange(t *testing.T) {
	questions := []entity.Question{
		{Text: "Выберите день", Options: entity.StringArray{"Пн", "Вт"}, MinAns: 1, MaxAns: 1},
	}

	// Ровно один выбранный вариант — принимается
	assert.NoError(t, ValidateSubmission(questions, []string{"1;0"}, "Гость"))

	// Ни одного — отклоняется
	err := ValidateSubmission(questions, []string{"0;0"}, "Гость")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeAnswerCountOutOfRange)

	// Оба — отклоняется
	err = ValidateSubmission(questions, []string{"1;1"}, "Гость")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeAnswerCountOutOfRange)
}

func TestValidateSubmission_CountBoundaries(t *testing.T) {
	// Принимается тогда и только тогда, когда min <= count <= max
	questions := []entity.Question{
		{Text: "Вопрос", Options: entity.StringArray{"A", "B", "C", "D"}, MinAns: 1, MaxAns: 3},
	}

	testCases := []struct {
		name    string
		encoded string
		valid   bool
	}{
		{"ноль выбрано", "0;0;0;0", false},
		{"один выбран", "1;0;0;0", true},
		{"три выбрано", "1;1;1;0", true},
		{"четыре выбрано", "1;1;1;1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSubmission(questions, []string{tc.encoded}, "Гость")
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateSubmission_FreeText(t *testing.T) {
	required := []entity.Question{{Text: "Обязательный", MinAns: 1, MaxAns: 1}}
	optional := []entity.Question{{Text: "Необязательный", MinAns: 0, MaxAns: 1}}

	// Пустой ответ на обязательный текстовый вопрос — ошибка
	err := ValidateSubmission(required, []string{""}, "Гость")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeTextAnswerInvalid)

	// Пустой ответ на необязательный (min_ans = 0) — принимается
	assert.NoError(t, ValidateSubmission(optional, []string{""}, "Гость"))

	// Нормальный текст — принимается
	assert.NoError(t, ValidateSubmission(required, []string{"ответ"}, "Гость"))

	// Слишком длинный текст — ошибка
	long := make([]rune, 201)
	for i := range long {
		long[i] = 'ы'
	}
	err = ValidateSubmission(required, []string{string(long)}, "Гость")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeTextAnswerInvalid)
}

func TestValidateSubmission_EmptyUsername(t *testing.T) {
	questions := []entity.Question{{Text: "Вопрос", MinAns: 0, MaxAns: 1}}
	err := ValidateSubmission(questions, []string{""}, "  ")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeEmptyUsername)
}

func TestValidateSubmission_AnswerSetMismatch(t *testing.T) {
	questions := []entity.Question{
		{Text: "Первый", MinAns: 0, MaxAns: 1},
		{Text: "Второй", MinAns: 0, MaxAns: 1},
	}
	err := ValidateSubmission(questions, []string{"только один"}, "Гость")
	require.Error(t, err)
	assert.Contains(t, codes(err), CodeAnswerSetMismatch)
}
