package catalog

import (
	"database/sql"
	"fmt"

	"price-match/internal/match/model"
)

// scanProducts читает строки (product_id, name, category, current_price).
func scanProducts(rows *sql.Rows, store model.Store) ([]model.ProductRecord, error) {
	defer rows.Close()

	out := make([]model.ProductRecord, 0)
	for rows.Next() {
		r, err := scanProduct(rows, store)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner, store model.Store) (model.ProductRecord, error) {
	var (
		r        model.ProductRecord
		category sql.NullString
		price    sql.NullFloat64
	)
	if err := s.Scan(&r.ID, &r.Name, &category, &price); err != nil {
		return model.ProductRecord{}, fmt.Errorf("scan product: %w", err)
	}
	r.Category = category.String
	if price.Valid && price.Float64 > 0 {
		r.Price = price.Float64
	}
	r.Store = store
	return r, nil
}
