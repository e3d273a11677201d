package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"price-match/internal/match/model"
)

const (
	pgSelectAll = `SELECT product_id, name, category, current_price FROM products WHERE store = $1 ORDER BY product_id`
	pgSelectOne = `SELECT product_id, name, category, current_price FROM products WHERE store = $1 AND product_id = $2`
)

// Postgres: общая таблица products с колонкой store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres открывает пул соединений и проверяет доступность.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) GetAll(ctx context.Context, store model.Store) ([]model.ProductRecord, error) {
	if _, err := model.ParseStore(string(store)); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx, pgSelectAll, string(store))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return scanProducts(rows, store)
}

func (p *Postgres) GetOne(ctx context.Context, store model.Store, id string) (model.ProductRecord, error) {
	if _, err := model.ParseStore(string(store)); err != nil {
		return model.ProductRecord{}, err
	}
	r, err := scanProduct(p.db.QueryRowContext(ctx, pgSelectOne, string(store), id), store)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProductRecord{}, model.ErrProductNotFound
	}
	return r, err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
