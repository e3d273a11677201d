package service

import (
	"sort"
	"strings"

	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

// Уровни релевантности поиска. Уровни подстроки не складываются: берётся старший.
const (
	RelWholeWord = 200
	RelPrefix    = 150
	RelSubstring = 100
	RelAllTokens = 60
	RelPerToken  = 10
	RelPartial   = 50
	RelCategory  = 5
)

// Search ранжирует весь каталог по поисковой фразе. category != "", предварительный
// фильтр по точному (после нормализации) совпадению категории.
func Search(catalog []model.ProductRecord, query, category string) []model.SearchResult {
	out := make([]model.SearchResult, 0)
	q := text.Normalize(query)
	toks := text.Tokenize(q)
	if len(toks) == 0 {
		return out
	}
	cat := text.Normalize(category)

	type hit struct {
		res  model.SearchResult
		size int
	}
	var hits []hit
	for _, r := range catalog {
		rc := text.Normalize(r.Category)
		if cat != "" && rc != cat {
			continue
		}
		name := text.Normalize(r.Name)
		rel := relevance(name, rc, q, toks)
		if rel == 0 {
			continue
		}
		hits = append(hits, hit{
			res:  model.SearchResult{ProductRecord: r, Relevance: rel},
			size: text.RuneLen(name),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.res.Relevance != b.res.Relevance {
			return a.res.Relevance > b.res.Relevance
		}
		if a.size != b.size {
			return a.size < b.size
		}
		return a.res.ID < b.res.ID
	})
	for _, h := range hits {
		out = append(out, h.res)
	}
	return out
}

func relevance(name, category, q string, toks []string) int {
	if strings.Contains(name, q) {
		switch {
		case text.ContainsWord(name, q):
			return RelWholeWord
		case strings.HasPrefix(name, q):
			return RelPrefix
		default:
			return RelSubstring
		}
	}

	n := 0
	for _, t := range toks {
		if strings.Contains(name, t) {
			n++
		}
	}
	switch {
	case n == len(toks):
		return RelAllTokens
	case n > 0:
		return min(RelPerToken*n, RelPartial)
	}

	if category != "" && strings.Contains(category, q) {
		return RelCategory
	}
	return 0
}
