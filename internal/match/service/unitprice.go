package service

import (
	"math"

	"price-match/internal/match/model"
)

const (
	UnitLiter    = "л"
	UnitKilogram = "кг"
)

// PricePerUnit: цена за литр, иначе за килограмм. Без цены или упаковки, nil.
func PricePerUnit(price float64, a model.Attributes) (*float64, string) {
	if price <= 0 {
		return nil, ""
	}
	switch {
	case a.VolumeML != nil && *a.VolumeML > 0:
		v := round2(price / (*a.VolumeML / 1000))
		return &v, UnitLiter
	case a.WeightG != nil && *a.WeightG > 0:
		v := round2(price / (*a.WeightG / 1000))
		return &v, UnitKilogram
	}
	return nil, ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
