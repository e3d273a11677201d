package model

import "errors"

// Store: идентификатор каталога (магазина).
type Store string

const (
	Store5ka    Store = "5ka"
	StoreMagnit Store = "magnit"
)

// Stores: фиксированный набор каталогов.
var Stores = []Store{Store5ka, StoreMagnit}

var (
	ErrUnknownStore    = errors.New("unknown store")
	ErrProductNotFound = errors.New("product not found")
)

// ParseStore проверяет, что id относится к известному каталогу.
func ParseStore(s string) (Store, error) {
	for _, st := range Stores {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrUnknownStore
}

// OtherStore: «другой» магазин для поиска кросс-совпадений.
func OtherStore(s Store) (Store, error) {
	switch s {
	case Store5ka:
		return StoreMagnit, nil
	case StoreMagnit:
		return Store5ka, nil
	default:
		return "", ErrUnknownStore
	}
}

// Name: человекочитаемое название магазина.
func (s Store) Name() string {
	switch s {
	case Store5ka:
		return "Пятёрочка"
	case StoreMagnit:
		return "Магнит"
	default:
		return string(s)
	}
}

// ProductRecord: товар из внешнего каталога, ядро его не меняет.
type ProductRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"` // 0 = цена неизвестна
	Store    Store   `json:"store"`
}

// Attributes: атрибуты, извлечённые из названия. nil = не найдено.
type Attributes struct {
	ProductType string   `json:"productType,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	VolumeML    *float64 `json:"volumeMl,omitempty"`
	WeightG     *float64 `json:"weightG,omitempty"`
	FatPercent  *float64 `json:"fatPercent,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
}

// Empty: ничего не извлечено.
func (a Attributes) Empty() bool {
	return a.ProductType == "" && a.Brand == "" && a.VolumeML == nil &&
		a.WeightG == nil && a.FatPercent == nil && a.Quantity == nil
}

type ScoredCandidate struct {
	ProductRecord
	SimilarityScore int      `json:"similarityScore"` // 0..100
	PriceDiff       float64  `json:"priceDiff"`       // цена кандидата − цена источника
	IsCheaper       bool     `json:"isCheaper"`
	IsExactMatch    bool     `json:"isExactMatch"`
	PricePerUnit    *float64 `json:"pricePerUnit,omitempty"`
	Unit            string   `json:"unit,omitempty"` // "л" | "кг"
}

type SearchResult struct {
	ProductRecord
	Relevance int `json:"relevance"`
}

// Source: товар, для которого ищем похожие.
type Source struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Store    Store
}

// SourceOf строит Source из записи каталога.
func SourceOf(r ProductRecord) Source {
	return Source{ID: r.ID, Name: r.Name, Category: r.Category, Price: r.Price, Store: r.Store}
}
