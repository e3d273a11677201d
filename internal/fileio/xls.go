package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	xls "github.com/extrame/xls"
)

// Кодировки, в которых пробуем открыть .xls. Выгрузки сборщиков обычно в cp1251.
var xlsCharsets = []string{"windows-1251", "utf-8", "koi8-r"}

// Сколько колонок просматривать при поиске ширины таблицы.
const xlsProbeCols = 256

// readXLS читает первый лист. Ширину таблицы считаем сами: Row.LastCol() в старых
// книгах часто врёт.
func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		return nil, errors.New("xls: header row must be >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}

	var wb *xls.WorkBook
	for _, cs := range xlsCharsets {
		if wb, err = xls.OpenReader(bytes.NewReader(b), cs); err == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if err == nil {
			err = errors.New("failed to open workbook")
		}
		return nil, fmt.Errorf("xls: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	width := xlsWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := range cols {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

// xlsWidth: номер последней непустой колонки по всем строкам.
func xlsWidth(sheet *xls.WorkSheet) int {
	width := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := xlsProbeCols - 1; j >= width; j-- {
			if normalizeCell(row.Col(j)) != "" {
				width = j + 1
				break
			}
		}
	}
	return width
}
