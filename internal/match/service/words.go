package service

import (
	"price-match/internal/match/knowledge"
	"price-match/internal/match/text"
)

// significantWords: слова нормализованного названия без стоп-слов и чисел/единиц, без повторов.
func significantWords(kb *knowledge.Tables, norm string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range text.Tokenize(norm) {
		if !text.HasLetter(tok) || text.HasDigit(tok) || kb.IsStopWord(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// firstSignificant: первое значимое слово от 3 символов (обычно тип товара).
func firstSignificant(words []string) string {
	for _, w := range words {
		if text.RuneLen(w) >= 3 {
			return w
		}
	}
	return ""
}

func countShared(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range b {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := countShared(a, b)
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
