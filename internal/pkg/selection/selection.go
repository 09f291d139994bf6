// Package selection кодирует выбор вариантов ответа в строковую форму,
// в которой он хранится в таблице answers: по одному флагу "0"/"1" на
// вариант, флаги соединены разделителем (например "1;0;1").
// Пакет чистый: никакого I/O, только преобразования строк.
package selection

import (
	"fmt"
	"strings"
)

// Separator разделяет флаги выбора и подписи вариантов в хранимой форме.
const Separator = ";"

// LabelPlaceholder заменяет Separator внутри пользовательской подписи
// варианта. Визуально похожий символ (U+FF1B), чтобы подпись не ломала
// разбиение хранимой строки.
const LabelPlaceholder = "；"

// MaxTextAnswerLen ограничивает длину свободного текстового ответа.
const MaxTextAnswerLen = 200

// Encode возвращает каноническую хранимую форму выбора: optionCount флагов,
// "1" на каждом выбранном индексе, соединенных Separator.
// Возвращает ошибку, если какой-либо индекс выходит за пределы вариантов.
func Encode(selected []int, optionCount int) (string, error) {
	flags := make([]string, optionCount)
	for i := range flags {
		flags[i] = "0"
	}
	for _, idx := range selected {
		if idx < 0 || idx >= optionCount {
			return "", fmt.Errorf("selection index %d out of range [0, %d)", idx, optionCount)
		}
		flags[idx] = "1"
	}
	return strings.Join(flags, Separator), nil
}

// Decode разбирает хранимую форму в срез флагов.
// Строка без разделителя трактуется как ответ на вопрос с одним вариантом
// (историческая форма записи; Encode такую форму больше не порождает).
func Decode(s string) []bool {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, Separator)
	flags := make([]bool, len(parts))
	for i, p := range parts {
		flags[i] = p == "1"
	}
	return flags
}

// Count возвращает число выбранных вариантов в хранимой форме.
func Count(s string) int {
	n := 0
	for _, f := range Decode(s) {
		if f {
			n++
		}
	}
	return n
}

// SelectedIndexes возвращает индексы выбранных вариантов.
func SelectedIndexes(s string) []int {
	var idxs []int
	for i, f := range Decode(s) {
		if f {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// SanitizeLabel заменяет каждый Separator внутри подписи варианта на
// LabelPlaceholder. Применяется один раз при создании вопроса, не при чтении.
func SanitizeLabel(label string) string {
	return strings.ReplaceAll(label, Separator, LabelPlaceholder)
}

// JoinOptions соединяет подписи вариантов в хранимую форму, предварительно
// очищая каждую подпись от разделителя.
func JoinOptions(labels []string) string {
	clean := make([]string, len(labels))
	for i, l := range labels {
		clean[i] = SanitizeLabel(l)
	}
	return strings.Join(clean, Separator)
}

// SplitOptions разбирает хранимую форму подписей вариантов.
// Пустая строка означает свободный текстовый вопрос (вариантов нет).
func SplitOptions(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, Separator)
}
