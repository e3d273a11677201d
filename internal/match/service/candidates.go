package service

import (
	"strings"

	"price-match/internal/match/index"
	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

const minTermLen = 3

// Terms: поисковые термины для кандидатов: слова названия от 3 символов и их основы,
// тип товара и его основа, бренд. Токены с цифрами («930мл», «1кг») не берутся: фасовка
// совпадает у тысяч чужих товаров и забивает окно кандидатов. Если ничего не набралось,
// первый токен.
func (e *Engine) Terms(name string) []string {
	norm := text.Normalize(name)
	attrs := e.ext.Extract(name)

	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	toks := text.Tokenize(norm)
	for _, tok := range toks {
		if text.RuneLen(tok) < minTermLen || text.HasDigit(tok) || e.kb.IsStopWord(tok) {
			continue
		}
		add(tok)
		add(e.stem.Stem(tok))
	}
	if attrs.ProductType != "" {
		add(attrs.ProductType)
		add(e.stem.Stem(attrs.ProductType))
	}
	add(text.Normalize(attrs.Brand))

	if len(out) == 0 && len(toks) > 0 {
		add(toks[0])
	}
	return out
}

// Candidates: перебор каталога: запись подходит, если её нормализованное название
// содержит хоть один термин. Исходный товар исключается, порядок каталога сохраняется.
func (e *Engine) Candidates(catalog []model.ProductRecord, sourceName, sourceID string, limit int) []model.ProductRecord {
	terms := e.Terms(sourceName)
	out := make([]model.ProductRecord, 0)
	if len(terms) == 0 || limit <= 0 {
		return out
	}
	for _, r := range catalog {
		if r.ID == sourceID {
			continue
		}
		if containsAny(text.Normalize(r.Name), terms) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// CandidatesIndexed даёт тот же результат, что Candidates, но через индекс.
// idx должен быть построен по catalog (index.BuildRecords).
func (e *Engine) CandidatesIndexed(catalog []model.ProductRecord, idx *index.Index, sourceName, sourceID string, limit int) []model.ProductRecord {
	terms := e.Terms(sourceName)
	out := make([]model.ProductRecord, 0)
	if len(terms) == 0 || limit <= 0 {
		return out
	}
	for _, i := range idx.Match(terms) {
		r := catalog[i]
		if r.ID == sourceID {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
