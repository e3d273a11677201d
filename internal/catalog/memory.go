// Package catalog: источники каталогов товаров для сопоставления:
// снимки в памяти, SQLite-базы сборщиков и общая таблица в PostgreSQL.
package catalog

import (
	"context"
	"sync"

	"price-match/internal/match/index"
	"price-match/internal/match/model"
)

type snapshot struct {
	recs []model.ProductRecord
	byID map[string]int
	idx  *index.Index
}

// Memory хранит по снимку на магазин. Снимок заменяется целиком, читатели
// видят либо старый, либо новый.
type Memory struct {
	mu    sync.RWMutex
	snaps map[model.Store]*snapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: make(map[model.Store]*snapshot)}
}

// Replace ставит новый снимок магазина. Повторные id отбрасываются (первый побеждает).
// Возвращает число загруженных записей.
func (m *Memory) Replace(store model.Store, recs []model.ProductRecord) (int, error) {
	if _, err := model.ParseStore(string(store)); err != nil {
		return 0, err
	}

	snap := &snapshot{
		recs: make([]model.ProductRecord, 0, len(recs)),
		byID: make(map[string]int, len(recs)),
	}
	for _, r := range recs {
		if r.ID == "" {
			continue
		}
		if _, dup := snap.byID[r.ID]; dup {
			continue
		}
		r.Store = store
		snap.byID[r.ID] = len(snap.recs)
		snap.recs = append(snap.recs, r)
	}
	snap.idx = index.BuildRecords(snap.recs)

	m.mu.Lock()
	m.snaps[store] = snap
	m.mu.Unlock()
	return len(snap.recs), nil
}

func (m *Memory) get(store model.Store) (*snapshot, error) {
	if _, err := model.ParseStore(string(store)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.snaps[store]; ok {
		return s, nil
	}
	return &snapshot{idx: index.Build(nil)}, nil
}

// GetAll возвращает снимок; вызывающий не должен его менять.
func (m *Memory) GetAll(_ context.Context, store model.Store) ([]model.ProductRecord, error) {
	s, err := m.get(store)
	if err != nil {
		return nil, err
	}
	return s.recs, nil
}

func (m *Memory) GetOne(_ context.Context, store model.Store, id string) (model.ProductRecord, error) {
	s, err := m.get(store)
	if err != nil {
		return model.ProductRecord{}, err
	}
	i, ok := s.byID[id]
	if !ok {
		return model.ProductRecord{}, model.ErrProductNotFound
	}
	return s.recs[i], nil
}

// Snapshot: записи и индекс одного и того же снимка.
func (m *Memory) Snapshot(_ context.Context, store model.Store) ([]model.ProductRecord, *index.Index, error) {
	s, err := m.get(store)
	if err != nil {
		return nil, nil, err
	}
	return s.recs, s.idx, nil
}

// Len: размер текущего снимка магазина.
func (m *Memory) Len(store model.Store) int {
	s, err := m.get(store)
	if err != nil {
		return 0
	}
	return len(s.recs)
}
