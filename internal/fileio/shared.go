// Package fileio читает выгрузки каталогов (CSV, XLS, XLSX) в записи товаров.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps выбирает парсер по расширению и возвращает строки как map[заголовок]значение.
// headerRow: номер строки заголовков (с 1).
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// pickHeader берёт строку заголовков; пустые подменяет на «Column N».
func pickHeader(rows [][]string, headerRow int) []string {
	i := headerRow - 1
	if i < 0 || i >= len(rows) {
		i = 0
	}
	out := make([]string, len(rows[i]))
	for c, v := range rows[i] {
		v = normalizeCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", c+1)
		}
		out[c] = v
	}
	return out
}

// rowsToMaps собирает записи после строки заголовков, пропуская пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := max(headerRow, 1); r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = normalizeCell(rec[c])
			}
			if v != "" {
				empty = false
			}
			m[h] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

var cellSpaces = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\u2009", " ")

// normalizeCell: спецпробелы → пробел, обрезка краёв.
func normalizeCell(s string) string {
	return strings.TrimSpace(cellSpaces.Replace(s))
}
