package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"price-match/internal/match/model"
)

// Схема баз сборщиков: по файлу на магазин.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	category TEXT,
	current_price REAL DEFAULT 0,
	min_price REAL DEFAULT 0,
	max_price REAL DEFAULT 0,
	rating REAL DEFAULT 0,
	reviews INTEGER DEFAULT 0,
	image_url TEXT,
	first_seen TIMESTAMP,
	last_updated TIMESTAMP
);
CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id TEXT NOT NULL,
	price REAL NOT NULL,
	old_price REAL,
	recorded_at TIMESTAMP
);`

const (
	sqliteSelectAll = `SELECT product_id, name, category, current_price FROM products ORDER BY id`
	sqliteSelectOne = `SELECT product_id, name, category, current_price FROM products WHERE product_id = ?`
)

// SQLite читает каталоги из баз сборщиков.
type SQLite struct {
	dbs map[model.Store]*sql.DB
}

func NewSQLite(dbs map[model.Store]*sql.DB) *SQLite {
	return &SQLite{dbs: dbs}
}

// OpenSQLite открывает базы по путям. Магазин без пути пропускается.
func OpenSQLite(ctx context.Context, paths map[model.Store]string) (*SQLite, error) {
	s := &SQLite{dbs: make(map[model.Store]*sql.DB)}
	for store, path := range paths {
		if path == "" {
			continue
		}
		db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open %s db: %w", store, err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			s.Close()
			return nil, fmt.Errorf("ping %s db: %w", store, err)
		}
		s.dbs[store] = db
	}
	return s, nil
}

// EnsureSchema создаёт таблицы, если их нет.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLite) db(store model.Store) (*sql.DB, error) {
	if _, err := model.ParseStore(string(store)); err != nil {
		return nil, err
	}
	db, ok := s.dbs[store]
	if !ok {
		return nil, fmt.Errorf("no database for store %s", store)
	}
	return db, nil
}

func (s *SQLite) GetAll(ctx context.Context, store model.Store) ([]model.ProductRecord, error) {
	db, err := s.db(store)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, sqliteSelectAll)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return scanProducts(rows, store)
}

func (s *SQLite) GetOne(ctx context.Context, store model.Store, id string) (model.ProductRecord, error) {
	db, err := s.db(store)
	if err != nil {
		return model.ProductRecord{}, err
	}
	r, err := scanProduct(db.QueryRowContext(ctx, sqliteSelectOne, id), store)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProductRecord{}, model.ErrProductNotFound
	}
	return r, err
}

// Ping проверяет все открытые базы.
func (s *SQLite) Ping(ctx context.Context) error {
	var errs []error
	for store, db := range s.dbs {
		if err := db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", store, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SQLite) Close() error {
	var errs []error
	for _, db := range s.dbs {
		errs = append(errs, db.Close())
	}
	return errors.Join(errs...)
}
