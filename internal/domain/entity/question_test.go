package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsFreeText(t *testing.T) {
	// Arrange
	selectable := &Question{
		Text:    "Какой день недели выбрать?",
		Options: StringArray{"Пн", "Вт"},
		MinAns:  1,
		MaxAns:  1,
	}
	freeText := &Question{
		Text:   "Расскажите о себе",
		MaxAns: 1,
	}

	// Act & Assert
	assert.False(t, selectable.IsFreeText(), "вопрос с вариантами не является текстовым")
	assert.True(t, freeText.IsFreeText(), "вопрос без вариантов является текстовым")
}

func TestQuestion_IsOptional(t *testing.T) {
	assert.True(t, (&Question{MinAns: 0, MaxAns: 1}).IsOptional(),
		"min_ans = 0 делает вопрос необязательным")
	assert.False(t, (&Question{MinAns: 1, MaxAns: 1}).IsOptional(),
		"min_ans >= 1 делает вопрос обязательным")
}

func TestQuestion_InRange(t *testing.T) {
	// Arrange
	testCases := []struct {
		name     string
		min, max int
		count    int
		expected bool
	}{
		{"ровно минимум", 1, 3, 1, true},
		{"ровно максимум", 1, 3, 3, true},
		{"внутри диапазона", 1, 3, 2, true},
		{"меньше минимума", 1, 3, 0, false},
		{"больше максимума", 1, 3, 4, false},
		{"необязательный без ответа", 0, 1, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := &Question{MinAns: tc.min, MaxAns: tc.max}
			assert.Equal(t, tc.expected, q.InRange(tc.count))
		})
	}
}

func TestQuestion_OptionsCount(t *testing.T) {
	// Arrange
	testCases := []struct {
		name     string
		options  StringArray
		expected int
	}{
		{"4 варианта", StringArray{"A", "B", "C", "D"}, 4},
		{"2 варианта", StringArray{"Да", "Нет"}, 2},
		{"0 вариантов", StringArray{}, 0},
		{"nil варианты", nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			question := &Question{Options: tc.options}
			assert.Equal(t, tc.expected, question.OptionsCount())
		})
	}
}

func TestStringArray_ScanValue(t *testing.T) {
	// Scan из JSONB
	var arr StringArray
	assert.NoError(t, arr.Scan([]byte(`["Пн","Вт"]`)))
	assert.Equal(t, StringArray{"Пн", "Вт"}, arr)

	// NULL из базы превращается в пустой массив
	var nullArr StringArray
	assert.NoError(t, nullArr.Scan(nil))
	assert.Equal(t, StringArray{}, nullArr)

	// Value для пустого массива — пустой JSON массив, не null
	val, err := StringArray(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte("[]"), val)
}
