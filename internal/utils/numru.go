// Package utils: разбор чисел в русской записи.
package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// NBSP/NNBSP/тонкие пробелы и запятая как десятичный разделитель
var numRepl = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", ".")

// ParseFloatRU парсит "3,2", "1 234,50", "197 ,00" и т.п.
func ParseFloatRU(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = numRepl.Replace(s)
	// оставить только цифры, точку и минус (валюта, «руб.» и прочий мусор)
	s = rxKeepNums.ReplaceAllString(s, "")
	s = strings.Trim(s, ".")
	if s == "" || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParsePrice: "89,99 ₽", "1 299 руб." → цена. Отрицательная или нечитаемая цена
// считается «неизвестной»: (0, false).
func ParsePrice(s string) (float64, bool) {
	f, ok := ParseFloatRU(s)
	if !ok || f < 0 {
		return 0, false
	}
	return math.Round(f*100) / 100, true
}
