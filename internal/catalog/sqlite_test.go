package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-match/internal/match/model"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "products.db")
	s, err := OpenSQLite(ctx, map[model.Store]string{model.Store5ka: path, model.StoreMagnit: ""})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })

	db := s.dbs[model.Store5ka]
	require.NoError(t, EnsureSchema(ctx, db))
	_, err = db.ExecContext(ctx, `INSERT INTO products (product_id, name, category, current_price) VALUES
		('p1', 'Молоко Простоквашино 3.2% 930мл', 'Молоко', 89.9),
		('p2', 'Сыр Российский', NULL, 0),
		('p3', 'Бананы', 'Фрукты', NULL)`)
	require.NoError(t, err)
	return s
}

func TestSQLiteGetAll(t *testing.T) {
	s := setupSQLite(t)

	recs, err := s.GetAll(context.Background(), model.Store5ka)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, model.ProductRecord{
		ID: "p1", Name: "Молоко Простоквашино 3.2% 930мл", Category: "Молоко", Price: 89.9, Store: model.Store5ka,
	}, recs[0])
	assert.Empty(t, recs[1].Category)
	assert.Zero(t, recs[1].Price)
	assert.Zero(t, recs[2].Price)
}

func TestSQLiteGetOne(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	r, err := s.GetOne(ctx, model.Store5ka, "p3")
	require.NoError(t, err)
	assert.Equal(t, "Бананы", r.Name)
	assert.Equal(t, "Фрукты", r.Category)

	_, err = s.GetOne(ctx, model.Store5ka, "missing")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestSQLiteStores(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	_, err := s.GetAll(ctx, "lenta")
	assert.ErrorIs(t, err, model.ErrUnknownStore)

	// путь не задан, базы нет
	_, err = s.GetAll(ctx, model.StoreMagnit)
	assert.Error(t, err)
}

func TestSQLitePing(t *testing.T) {
	s := setupSQLite(t)
	assert.NoError(t, s.Ping(context.Background()))
}
