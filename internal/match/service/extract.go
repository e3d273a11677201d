package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/text"
	"price-match/internal/utils"
)

// Число: 930, 3.2, 3,2
const num = `(\d+(?:[.,]\d+)?)`

// Граница единицы: дальше не буква. \b в RE2 только для ASCII.
const unitEnd = `(?:[^\p{L}]|$)`

// Правило извлечения: первое совпадение pattern, число * factor.
type numRule struct {
	re     *regexp.Regexp
	factor float64
}

// Пары правил: второе пробуем, только если первое ничего не нашло.
var (
	volumeRules = []numRule{
		{regexp.MustCompile(num + `\s*мл` + unitEnd), 1},
		{regexp.MustCompile(num + `\s*(?:л|литр\p{L}*)` + unitEnd), 1000},
	}
	weightRules = []numRule{
		{regexp.MustCompile(num + `\s*(?:г|гр)` + unitEnd), 1},
		{regexp.MustCompile(num + `\s*кг` + unitEnd), 1000},
	}
	fatRules = []numRule{
		{regexp.MustCompile(num + `%`), 1},
	}
	// «2х500мл»: число перед множителем, за которым идёт фасовка, это количество
	quantityRules = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*шт`),
		regexp.MustCompile(`(\d+)\s*[x×х*]\s*\d`),
		regexp.MustCompile(`(?:^|[^\p{L}])[x×х*]\s*(\d+)`),
	}
)

// Бренд латиницей: 1–2 слова с заглавной буквы.
var reLatinBrand = regexp.MustCompile(`\b[A-Z][A-Za-z'&\-]*[A-Za-z]\b(?:\s+[A-Z][A-Za-z'&\-]*[A-Za-z]\b)?`)

// Extractor разбирает название на атрибуты. Безопасен для параллельного использования.
type Extractor struct {
	kb *knowledge.Tables
}

func NewExtractor(kb *knowledge.Tables) *Extractor {
	return &Extractor{kb: kb}
}

// Extract никогда не падает: что не распозналось, остаётся пустым.
func (e *Extractor) Extract(name string) model.Attributes {
	norm := text.Normalize(name)
	var a model.Attributes

	a.VolumeML = firstNumber(norm, volumeRules)
	a.WeightG = firstNumber(norm, weightRules)
	a.FatPercent = firstNumber(norm, fatRules)
	a.Quantity = extractQuantity(norm)
	a.Brand = e.extractBrand(name, norm)
	a.ProductType = e.extractType(norm)
	return a
}

func firstNumber(s string, rules []numRule) *float64 {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, ok := utils.ParseFloatRU(m[1])
		if !ok {
			// кривое число: пропускаем только это правило
			continue
		}
		v *= r.factor
		return &v
	}
	return nil
}

func extractQuantity(s string) *int {
	for _, re := range quantityRules {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return &n
	}
	return nil
}

// extractBrand: сначала латиница по исходному регистру, потом справочник.
func (e *Extractor) extractBrand(raw, norm string) string {
	best := ""
	for _, m := range reLatinBrand.FindAllString(raw, -1) {
		if !strings.ContainsAny(m, " \t") && e.kb.IsStopWord(text.Normalize(m)) {
			continue
		}
		m = strings.Join(strings.Fields(m), " ")
		if text.RuneLen(m) > text.RuneLen(best) {
			best = m
		}
	}
	if best != "" {
		return best
	}

	padded := text.Padded(norm)
	for _, b := range e.kb.Brands {
		if strings.Contains(padded, b) {
			return text.TitleCase(strings.TrimSpace(b))
		}
	}
	return ""
}

// extractType: первый тип из справочника по порядку, иначе первое значимое слово.
func (e *Extractor) extractType(norm string) string {
	padded := text.Padded(norm)
	for _, pt := range e.kb.ProductTypes {
		for _, kw := range pt.Keywords {
			if strings.Contains(padded, kw) {
				return pt.Name
			}
		}
	}
	for _, tok := range text.Tokenize(norm) {
		if text.RuneLen(tok) >= 4 && startsWithLetter(tok) && !text.HasDigit(tok) && !e.kb.IsStopWord(tok) {
			return tok
		}
	}
	return ""
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}
