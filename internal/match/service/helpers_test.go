package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"price-match/internal/match/index"
	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return NewEngine(kb, text.NewSuffixStemmer(kb.Suffixes))
}

// fakeReader: каталоги в памяти для тестов.
type fakeReader struct {
	stores map[model.Store][]model.ProductRecord
	err    error
}

func (f *fakeReader) GetAll(_ context.Context, store model.Store) ([]model.ProductRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stores[store], nil
}

func (f *fakeReader) GetOne(_ context.Context, store model.Store, id string) (model.ProductRecord, error) {
	for _, r := range f.stores[store] {
		if r.ID == id {
			return r, nil
		}
	}
	return model.ProductRecord{}, model.ErrProductNotFound
}

// fakeIndexed дополнительно отдаёт индекс по снимку.
type fakeIndexed struct {
	fakeReader
	snapshots int
}

func (f *fakeIndexed) Snapshot(ctx context.Context, store model.Store) ([]model.ProductRecord, *index.Index, error) {
	f.snapshots++
	recs, err := f.GetAll(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	return recs, index.BuildRecords(recs), nil
}

func rec(store model.Store, id, name string, price float64) model.ProductRecord {
	return model.ProductRecord{ID: id, Name: name, Price: price, Store: store}
}

func ptr[T any](v T) *T { return &v }
