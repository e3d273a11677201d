package service

import (
	"sort"
	"strings"

	"price-match/internal/match/model"
)

// Rank оценивает кандидатов относительно источника и сортирует:
// score ↓, с ценой раньше без цены, цена ↑, id ↑. Возвращает не больше limit.
// sameStore включает бонус за общую категорию.
func (e *Engine) Rank(src model.Source, cands []model.ProductRecord, sameStore bool, limit int) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, 0)
	if limit <= 0 {
		return out
	}
	srcAttrs := e.ext.Extract(src.Name)
	if srcAttrs.Empty() {
		return out
	}
	p := e.kb.Policy
	bonusCat := sameStore && src.Category != "" && !strings.HasPrefix(src.Category, "«")

	for _, c := range cands {
		attrs := e.ext.Extract(c.Name)
		score := e.scorer.Score(srcAttrs, attrs, src.Name, c.Name)
		if score <= p.RelevanceFloor {
			continue
		}
		if bonusCat && c.Category == src.Category {
			score = min(score+p.CategoryBonus, maxScore)
		}

		sc := model.ScoredCandidate{
			ProductRecord:   c,
			SimilarityScore: score,
			IsExactMatch:    score >= p.ExactMatch,
		}
		if src.Price > 0 && c.Price > 0 {
			sc.PriceDiff = round2(c.Price - src.Price)
			sc.IsCheaper = sc.PriceDiff < -p.MinSaving
		}
		sc.PricePerUnit, sc.Unit = PricePerUnit(c.Price, attrs)
		out = append(out, sc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}
		if (a.Price > 0) != (b.Price > 0) {
			return a.Price > 0
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.ID < b.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
