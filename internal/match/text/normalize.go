// Package text: общие примитивы работы с названиями товаров:
// нормализация, токенизация и стемминг.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var yoFold = strings.NewReplacer("ё", "е")

// Normalize: Fold + схлопывание пробелов.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Fold: NFC, нижний регистр по правилам русского языка, ё→е. Пробелы не трогает.
// cases.Caser не потокобезопасен, поэтому создаём на каждый вызов.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = cases.Lower(language.Russian).String(s)
	return yoFold.Replace(s)
}

// TitleCase: «простоквашино» → «Простоквашино».
func TitleCase(s string) string {
	return cases.Title(language.Russian).String(s)
}

// RuneLen: длина в символах, а не в байтах.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func HasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// ContainsWord: w встречается в s как целое слово (границы по буквам/цифрам).
// regexp \b здесь не годится: он понимает только ASCII.
func ContainsWord(s, w string) bool {
	if w == "" {
		return false
	}
	for from := 0; from <= len(s)-len(w); {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(w)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		okBefore := i == 0 || !isWordRune(before)
		okAfter := end == len(s) || !isWordRune(after)
		if okBefore && okAfter {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		from = i + size
	}
	return false
}
