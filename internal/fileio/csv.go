package fileio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV читает CSV: UTF-8 как есть, иначе Windows-1251 (или KOI8-R, если так
// решил детектор). Разделитель определяется по первой строке.
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	peek = trimBOM(peek)

	var dec io.Reader = br
	if !validUTF8Prefix(peek) {
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil &&
			strings.EqualFold(det.Charset, "koi8-r") {
			dec = transform.NewReader(br, charmap.KOI8R.NewDecoder())
		}
	}
	return parseCSV(dec, sniffComma(peek), headerRow)
}

// validUTF8Prefix допускает обрезанный на границе Peek последний символ.
func validUTF8Prefix(b []byte) bool {
	for cut := 0; cut < utf8.UTFMax && cut <= len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}
	return false
}

func parseCSV(r io.Reader, comma rune, headerRow int) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

// sniffComma: выгрузки из Excel с русской локалью идут через «;».
func sniffComma(peek []byte) rune {
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
