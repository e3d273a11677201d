package service

import (
	"math"
	"strings"

	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

const maxScore = 100

// Scorer считает схожесть двух товаров в 0..100. Все слагаемые симметричны.
type Scorer struct {
	kb   *knowledge.Tables
	stem text.Stemmer
	p    knowledge.Policy
}

func NewScorer(kb *knowledge.Tables, stem text.Stemmer) *Scorer {
	return &Scorer{kb: kb, stem: stem, p: kb.Policy}
}

// Score: 0, если у товаров нет общего типа (гейт), иначе сумма баллов с отсечкой на 100.
func (s *Scorer) Score(a, b model.Attributes, nameA, nameB string) int {
	wa := significantWords(s.kb, text.Normalize(nameA))
	wb := significantWords(s.kb, text.Normalize(nameB))

	score, ok := s.typePoints(a.ProductType, b.ProductType, wa, wb)
	if !ok {
		return 0
	}
	score += s.brandPoints(a.Brand, b.Brand)
	score += s.packPoints(a, b)
	score += s.fatPoints(a.FatPercent, b.FatPercent)
	score += int(math.Round(jaccard(wa, wb) * float64(s.p.JaccardWeight)))

	return min(max(score, 0), maxScore)
}

// typePoints: точное > по основе > вхождение > только общие слова. ok=false, гейт не пройден.
// При конфликте типов гейт проходится по тем же правилам, но баллы за тип: TypeConflict.
func (s *Scorer) typePoints(ta, tb string, wa, wb []string) (int, bool) {
	fa, fb := firstSignificant(wa), firstSignificant(wb)
	bothFirst := fa != "" && fb != ""
	bothType := ta != "" && tb != ""
	// разные типы из справочника: совпавшее первое слово (обычно бренд) типом не считается
	conflict := bothType && s.stem.Stem(ta) != s.stem.Stem(tb) && s.kb.IsProductType(ta) && s.kb.IsProductType(tb)

	switch {
	case conflict:
		if (bothFirst && (s.stem.Stem(fa) == s.stem.Stem(fb) || strings.Contains(fa, fb) || strings.Contains(fb, fa))) ||
			countShared(wa, wb) >= s.p.MinSharedWords {
			return s.p.TypeConflict, true
		}
		return 0, false
	case (bothFirst && fa == fb) || (bothType && ta == tb):
		return s.p.TypeExact, true
	case (bothFirst && s.stem.Stem(fa) == s.stem.Stem(fb)) ||
		(bothType && s.stem.Stem(ta) == s.stem.Stem(tb)):
		return s.p.TypeStemmed, true
	case bothFirst && (strings.Contains(fa, fb) || strings.Contains(fb, fa)):
		return s.p.TypeContains, true
	case countShared(wa, wb) >= s.p.MinSharedWords:
		return s.p.WordOverlap, true
	}
	return 0, false
}

func (s *Scorer) brandPoints(a, b string) int {
	a, b = text.Normalize(a), text.Normalize(b)
	switch {
	case a != "" && a == b:
		return s.p.BrandSame
	case a == "" && b == "":
		return s.p.BrandNone
	case a == "" || b == "":
		return s.p.BrandOneSided
	default:
		return s.p.BrandConflict
	}
}

// packPoints сравнивает объём с объёмом или вес с весом, но не объём с весом.
func (s *Scorer) packPoints(a, b model.Attributes) int {
	switch {
	case a.VolumeML != nil && b.VolumeML != nil:
		return s.ratioPoints(*a.VolumeML, *b.VolumeML)
	case a.WeightG != nil && b.WeightG != nil:
		return s.ratioPoints(*a.WeightG, *b.WeightG)
	}
	return 0
}

func (s *Scorer) ratioPoints(x, y float64) int {
	lo, hi := math.Min(x, y), math.Max(x, y)
	if lo <= 0 || hi <= 0 {
		return 0
	}
	r := lo / hi
	switch {
	case r > 0.95:
		return s.p.PackNear
	case r > 0.8:
		return s.p.PackClose
	case r > 0.5:
		return s.p.PackFar
	}
	return 0
}

func (s *Scorer) fatPoints(a, b *float64) int {
	if a == nil || b == nil {
		return 0
	}
	d := math.Abs(*a - *b)
	switch {
	case d < 0.5:
		return s.p.FatNear
	case d < 1.5:
		return s.p.FatClose
	}
	return 0
}
