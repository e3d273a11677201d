package text

import (
	"strings"
	"unicode"
)

// MinTokenLen: токены короче отбрасываются.
const MinTokenLen = 2

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '.', '-', '_', '/', '(', ')':
		return true
	}
	return false
}

// Padded готовит нормализованный текст к поиску ключевых слов с пробелами по краям
// (" рис "): разделители, кроме дефиса, становятся пробелами, текст обрамляется пробелами.
// Дефис остаётся: он внутри названий вроде «брест-литовск».
func Padded(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != '-' && isSeparator(r) {
			return ' '
		}
		return r
	}, s)
	return " " + strings.Join(strings.Fields(s), " ") + " "
}

// Tokenize режет уже нормализованный текст на слова, порядок сохраняется.
func Tokenize(s string) []string {
	parts := strings.FieldsFunc(s, isSeparator)
	out := parts[:0]
	for _, p := range parts {
		if RuneLen(p) >= MinTokenLen {
			out = append(out, p)
		}
	}
	return out
}
