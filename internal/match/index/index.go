// Package index: триграммный инвертированный индекс по нормализованным названиям.
// Ответ Match совпадает с полным перебором strings.Contains по каталогу.
package index

import (
	"sort"
	"strings"

	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

type Index struct {
	names []string
	inv   map[string][]int // триграмма -> позиции (по возрастанию)
}

// Build строит индекс по уже нормализованным названиям.
func Build(names []string) *Index {
	idx := &Index{
		names: names,
		inv:   make(map[string][]int),
	}
	for i, nn := range names {
		for g := range trigramSet(nn) {
			idx.inv[g] = append(idx.inv[g], i)
		}
	}
	return idx
}

// BuildRecords нормализует названия записей и строит индекс. Позиции = индексы в recs.
func BuildRecords(recs []model.ProductRecord) *Index {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = text.Normalize(r.Name)
	}
	return Build(names)
}

func (idx *Index) Len() int { return len(idx.names) }

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	r := []rune(s)
	for i := 0; i+3 <= len(r); i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// Match возвращает позиции названий, содержащих хотя бы один из терминов.
func (idx *Index) Match(terms []string) []int {
	hit := make([]bool, len(idx.names))
	for _, t := range terms {
		if t == "" {
			continue
		}
		for _, i := range idx.lookup(t) {
			hit[i] = true
		}
	}
	out := make([]int, 0)
	for i, ok := range hit {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func (idx *Index) lookup(term string) []int {
	grams := trigramSet(term)
	if len(grams) == 0 {
		// короче триграммы: полный перебор
		var out []int
		for i, nn := range idx.names {
			if strings.Contains(nn, term) {
				out = append(out, i)
			}
		}
		return out
	}

	lists := make([][]int, 0, len(grams))
	for g := range grams {
		l, ok := idx.inv[g]
		if !ok {
			return nil
		}
		lists = append(lists, l)
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	cand := lists[0]
	for _, l := range lists[1:] {
		cand = intersect(cand, l)
		if len(cand) == 0 {
			return nil
		}
	}
	// триграммы не гарантируют подстроку, проверяем
	out := cand[:0:0]
	for _, i := range cand {
		if strings.Contains(idx.names[i], term) {
			out = append(out, i)
		}
	}
	return out
}

func intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
