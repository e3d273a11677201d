package fileio

import (
	"regexp"
	"strings"
)

// Mapping: какие колонки выгрузки брать. Варианты через «|»: "Наименование|Название".
type Mapping struct {
	IDKey       string
	NameKey     string
	CategoryKey string
	PriceKey    string
	HeaderRow   int // с 1
}

// DefaultMapping подходит для выгрузок сборщиков и типовых таблиц магазинов.
func DefaultMapping() Mapping {
	return Mapping{
		IDKey:       "product_id|id|Код|Артикул",
		NameKey:     "name|Наименование|Название|Товар",
		CategoryKey: "category|Категория|Группа",
		PriceKey:    "current_price|price|Цена",
		HeaderRow:   1,
	}
}

// withDefaults подставляет значения по умолчанию в пустые поля.
func (m Mapping) withDefaults() Mapping {
	d := DefaultMapping()
	if m.IDKey == "" {
		m.IDKey = d.IDKey
	}
	if m.NameKey == "" {
		m.NameKey = d.NameKey
	}
	if m.CategoryKey == "" {
		m.CategoryKey = d.CategoryKey
	}
	if m.PriceKey == "" {
		m.PriceKey = d.PriceKey
	}
	if m.HeaderRow <= 0 {
		m.HeaderRow = d.HeaderRow
	}
	return m
}

var (
	rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	headerRepl   = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е", "Ё", "Е")
)

// normHeaderKey: нижний регистр, ё→е, служебные символы → пробел.
func normHeaderKey(s string) string {
	s = strings.ToLower(headerRepl.Replace(strings.TrimSpace(s)))
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey ищет реальный заголовок записи по желаемому имени:
// точное совпадение, затем нормализованное, затем вхождение (длиннейшее).
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	norm := make([]string, 0, len(alts))
	for _, a := range alts {
		a = strings.TrimSpace(a)
		if _, ok := rec[a]; ok {
			return a
		}
		if n := normHeaderKey(a); n != "" {
			norm = append(norm, n)
		}
	}

	best, bestScore := "", 0
	for _, k := range sortedKeys(rec) {
		nk := normHeaderKey(k)
		if nk == "" {
			continue
		}
		for _, n := range norm {
			if nk == n {
				return k
			}
			// «цена, руб» содержит «цена»
			if strings.Contains(nk, n) && len(n) > bestScore {
				best, bestScore = k, len(n)
			}
		}
	}
	return best
}

// looksLikeHeader: повтор шапки внутри данных (склейка нескольких выгрузок).
func looksLikeHeader(rec map[string]string) bool {
	n := 0
	for _, v := range rec {
		s := normHeaderKey(v)
		if strings.HasPrefix(s, "наимен") || strings.HasPrefix(s, "цена") ||
			strings.HasPrefix(s, "категор") || s == "name" || s == "price" {
			n++
		}
	}
	return n >= 2
}
