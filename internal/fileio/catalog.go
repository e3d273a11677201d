package fileio

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"price-match/internal/match/model"
	"price-match/internal/utils"
)

// ReadCatalog читает выгрузку каталога в записи товаров.
// Строки без названия пропускаются; без id, получают порядковый номер записи.
// Цена не читается или отрицательная, 0 («неизвестна»).
func ReadCatalog(r io.Reader, filename string, store model.Store, m Mapping) ([]model.ProductRecord, error) {
	m = m.withDefaults()
	maps, err := ReadAnyMaps(r, filename, m.HeaderRow)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProductRecord, 0, len(maps))
	if len(maps) == 0 {
		return out, nil
	}

	first := maps[0]
	nameKey := resolveKey(first, m.NameKey)
	if nameKey == "" {
		return nil, fmt.Errorf("%s: no name column (%s)", filename, m.NameKey)
	}
	idKey := resolveKey(first, m.IDKey)
	catKey := resolveKey(first, m.CategoryKey)
	priceKey := resolveKey(first, m.PriceKey)

	for i, rec := range maps {
		if looksLikeHeader(rec) {
			continue
		}
		name := rec[nameKey]
		if name == "" {
			continue
		}
		id := rec[idKey]
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		price, _ := utils.ParsePrice(rec[priceKey])
		out = append(out, model.ProductRecord{
			ID:       id,
			Name:     name,
			Category: rec[catKey],
			Price:    price,
			Store:    store,
		})
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
