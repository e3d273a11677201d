// Package knowledge загружает справочники (типы товаров, бренды, стоп-слова,
// окончания) и весовую политику скоринга. После загрузки только чтение.
package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"price-match/internal/match/text"
)

//go:embed default.toml
var defaultTOML []byte

// ProductType: канонический тип и его варианты написания.
type ProductType struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// Policy: веса и пороги скоринга.
type Policy struct {
	TypeExact    int `toml:"type_exact"`
	TypeStemmed  int `toml:"type_stemmed"`
	TypeContains int `toml:"type_contains"`
	WordOverlap  int `toml:"word_overlap"`
	// оба типа из справочника и разные («молоко» и «кефир»), хотя первые слова совпали
	TypeConflict int `toml:"type_conflict"`

	BrandSame     int `toml:"brand_same"`
	BrandOneSided int `toml:"brand_one_sided"`
	BrandNone     int `toml:"brand_none"`
	BrandConflict int `toml:"brand_conflict"`

	PackNear  int `toml:"pack_near"`  // отношение > 0.95
	PackClose int `toml:"pack_close"` // > 0.8
	PackFar   int `toml:"pack_far"`   // > 0.5

	FatNear  int `toml:"fat_near"`  // |Δ| < 0.5
	FatClose int `toml:"fat_close"` // |Δ| < 1.5

	JaccardWeight  int `toml:"jaccard_weight"`
	MinSharedWords int `toml:"min_shared_words"`

	RelevanceFloor int     `toml:"relevance_floor"` // score <= floor отбрасываем
	ExactMatch     int     `toml:"exact_match"`
	MinSaving      float64 `toml:"min_saving"` // «дешевле» только при экономии больше этой
	CategoryBonus  int     `toml:"category_bonus"`
	CandidateLimit int     `toml:"candidate_limit"`
}

func (p Policy) validate() error {
	if p.ExactMatch <= 0 || p.ExactMatch > 100 {
		return fmt.Errorf("exact_match must be in 1..100, got %d", p.ExactMatch)
	}
	if p.RelevanceFloor < 0 || p.RelevanceFloor >= p.ExactMatch {
		return fmt.Errorf("relevance_floor must be in 0..exact_match-1, got %d", p.RelevanceFloor)
	}
	if p.MinSharedWords < 1 {
		return errors.New("min_shared_words must be >= 1")
	}
	if p.CandidateLimit < 1 {
		return errors.New("candidate_limit must be >= 1")
	}
	if p.MinSaving < 0 {
		return errors.New("min_saving must be >= 0")
	}
	for name, v := range map[string]int{
		"type_exact": p.TypeExact, "type_stemmed": p.TypeStemmed, "type_contains": p.TypeContains,
		"word_overlap": p.WordOverlap, "type_conflict": p.TypeConflict, "brand_same": p.BrandSame, "brand_one_sided": p.BrandOneSided,
		"brand_none": p.BrandNone, "brand_conflict": p.BrandConflict, "pack_near": p.PackNear,
		"pack_close": p.PackClose, "pack_far": p.PackFar, "fat_near": p.FatNear,
		"fat_close": p.FatClose, "jaccard_weight": p.JaccardWeight, "category_bonus": p.CategoryBonus,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

// Tables: загруженные справочники.
type Tables struct {
	Suffixes     []string
	StopWords    []string
	Brands       []string
	ProductTypes []ProductType
	Policy       Policy

	stop  map[string]struct{}
	types map[string]struct{}
}

// IsProductType: name есть в справочнике типов (а не подобран по первому слову).
func (t *Tables) IsProductType(name string) bool {
	_, ok := t.types[name]
	return ok
}

// IsStopWord ожидает нормализованное слово.
func (t *Tables) IsStopWord(w string) bool {
	_, ok := t.stop[w]
	return ok
}

type fileTables struct {
	Suffixes     []string      `toml:"suffixes"`
	StopWords    []string      `toml:"stop_words"`
	Brands       []string      `toml:"brands"`
	ProductTypes []ProductType `toml:"product_types"`
}

type fileScoring struct {
	Scoring Policy `toml:"scoring"`
}

// Default: встроенные справочники.
func Default() (*Tables, error) {
	return parse(defaultTOML, nil)
}

// Load читает файл справочников; пустой путь, встроенные.
// Отсутствующие в файле разделы берутся из встроенных.
func Load(path string) (*Tables, error) {
	base, err := Default()
	if err != nil {
		return nil, fmt.Errorf("default tables: %w", err)
	}
	if path == "" {
		return base, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	t, err := parse(b, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse разбирает TOML поверх встроенных справочников.
func Parse(data []byte) (*Tables, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	return parse(data, base)
}

func parse(data []byte, base *Tables) (*Tables, error) {
	var ft fileTables
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&ft); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	fs := fileScoring{}
	if base != nil {
		fs.Scoring = base.Policy
	}
	if err := toml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("decode scoring: %w", err)
	}

	if base != nil {
		if len(ft.Suffixes) == 0 {
			ft.Suffixes = base.Suffixes
		}
		if len(ft.StopWords) == 0 {
			ft.StopWords = base.StopWords
		}
		if len(ft.Brands) == 0 {
			ft.Brands = base.Brands
		}
		if len(ft.ProductTypes) == 0 {
			ft.ProductTypes = base.ProductTypes
		}
	}

	t := &Tables{
		Suffixes:  foldAll(ft.Suffixes, true),
		StopWords: foldAll(ft.StopWords, true),
		Brands:    foldAll(ft.Brands, false),
		Policy:    fs.Scoring,
	}
	for i, pt := range ft.ProductTypes {
		name := text.Normalize(pt.Name)
		if name == "" {
			return nil, fmt.Errorf("product_types[%d]: empty name", i)
		}
		kw := foldAll(pt.Keywords, false)
		if len(kw) == 0 {
			return nil, fmt.Errorf("product_types[%d] %q: no keywords", i, name)
		}
		t.ProductTypes = append(t.ProductTypes, ProductType{Name: name, Keywords: kw})
	}
	if len(t.ProductTypes) == 0 {
		return nil, errors.New("no product types")
	}
	if err := t.Policy.validate(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	t.stop = make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		t.stop[w] = struct{}{}
	}
	t.types = make(map[string]struct{}, len(t.ProductTypes))
	for _, pt := range t.ProductTypes {
		t.types[pt.Name] = struct{}{}
	}
	return t, nil
}

// foldAll приводит записи к виду нормализованного названия.
// Для ключевых слов обрамляющие пробелы значимы и сохраняются.
func foldAll(in []string, trim bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		f := text.Fold(s)
		if trim {
			f = strings.TrimSpace(f)
		}
		if strings.TrimSpace(f) == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}
