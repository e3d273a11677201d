package text

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer сводит словоформы к общей основе.
type Stemmer interface {
	Stem(word string) string
}

const (
	minStemWord = 4 // короче: не трогаем
	minStemRest = 3 // после отсечения должно остаться не меньше
)

// SuffixStemmer отрезает первое подходящее окончание из упорядоченного списка.
type SuffixStemmer struct {
	suffixes []string
}

func NewSuffixStemmer(suffixes []string) SuffixStemmer {
	return SuffixStemmer{suffixes: suffixes}
}

// Stem: «лимоны» → «лимон», «колбаса» → «колбас».
func (s SuffixStemmer) Stem(word string) string {
	n := RuneLen(word)
	if n < minStemWord {
		return word
	}
	for _, suf := range s.suffixes {
		if strings.HasSuffix(word, suf) && n-RuneLen(suf) >= minStemRest {
			return strings.TrimSuffix(word, suf)
		}
	}
	return word
}

// SnowballStemmer: русский стеммер Snowball, включается через STEMMER=snowball.
type SnowballStemmer struct{}

func (SnowballStemmer) Stem(word string) string {
	if RuneLen(word) < minStemWord {
		return word
	}
	out, err := snowball.Stem(word, "russian", true)
	if err != nil || RuneLen(out) < minStemRest {
		return word
	}
	return out
}

// NewStemmer выбирает реализацию по имени из конфига.
func NewStemmer(kind string, suffixes []string) (Stemmer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "suffix":
		return NewSuffixStemmer(suffixes), nil
	case "snowball":
		return SnowballStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", kind)
	}
}
