package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"price-match/internal/match/index"
	"price-match/internal/match/model"
)

// CatalogReader: внешний источник каталогов. GetOne возвращает model.ErrProductNotFound.
type CatalogReader interface {
	GetAll(ctx context.Context, store model.Store) ([]model.ProductRecord, error)
	GetOne(ctx context.Context, store model.Store, id string) (model.ProductRecord, error)
}

// IndexedReader отдаёт снимок каталога вместе с индексом, построенным по нему же.
type IndexedReader interface {
	CatalogReader
	Snapshot(ctx context.Context, store model.Store) ([]model.ProductRecord, *index.Index, error)
}

type Options struct {
	UseIndex bool // брать индекс у IndexedReader, если есть
	Logger   zerolog.Logger
}

// Matcher: поиск похожих товаров и кросс-магазинных совпадений поверх каталога.
type Matcher struct {
	*Engine
	reader   CatalogReader
	useIndex bool
	log      zerolog.Logger
}

func NewMatcher(eng *Engine, reader CatalogReader, opt Options) *Matcher {
	return &Matcher{
		Engine:   eng,
		reader:   reader,
		useIndex: opt.UseIndex,
		log:      opt.Logger,
	}
}

// logger: логгер запроса из контекста, иначе свой.
func (m *Matcher) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &m.log
}

// Product: товар каталога по id.
func (m *Matcher) Product(ctx context.Context, store model.Store, id string) (model.ProductRecord, error) {
	return m.reader.GetOne(ctx, store, id)
}

// FindSimilar: похожие товары в store для src, не больше limit.
func (m *Matcher) FindSimilar(ctx context.Context, store model.Store, src model.Source, limit int) ([]model.ScoredCandidate, error) {
	start := time.Now()
	if limit <= 0 {
		return []model.ScoredCandidate{}, nil
	}

	catalog, cands, err := m.candidates(ctx, store, src)
	if err != nil {
		return nil, err
	}
	res := m.Rank(src, cands, src.Store == store, limit)

	m.logger(ctx).Debug().
		Str("store", string(store)).
		Str("source_id", src.ID).
		Int("catalog", catalog).
		Int("candidates", len(cands)).
		Int("results", len(res)).
		Dur("elapsed", time.Since(start)).
		Msg("find similar")
	return res, nil
}

// FindCrossStoreMatch: тот же товар в другом магазине. nil, если лучший кандидат
// не дотягивает до точного совпадения.
func (m *Matcher) FindCrossStoreMatch(ctx context.Context, src model.Source) (*model.ScoredCandidate, error) {
	match, _, err := m.Compare(ctx, src, 1)
	return match, err
}

// Compare: похожие товары другого магазина и точное совпадение среди них (или nil).
func (m *Matcher) Compare(ctx context.Context, src model.Source, limit int) (*model.ScoredCandidate, []model.ScoredCandidate, error) {
	other, err := model.OtherStore(src.Store)
	if err != nil {
		return nil, nil, err
	}
	similar, err := m.FindSimilar(ctx, other, src, max(limit, 1))
	if err != nil {
		return nil, nil, err
	}
	var match *model.ScoredCandidate
	if len(similar) > 0 && similar[0].IsExactMatch {
		top := similar[0]
		match = &top
	}
	if len(similar) > limit {
		similar = similar[:max(limit, 0)]
	}
	return match, similar, nil
}

// Search: полнотекстовый поиск по каталогу store. limit <= 0, без ограничения.
func (m *Matcher) Search(ctx context.Context, store model.Store, query, category string, limit int) ([]model.SearchResult, error) {
	catalog, err := m.reader.GetAll(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", store, err)
	}
	res := Search(catalog, query, category)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	m.logger(ctx).Debug().
		Str("store", string(store)).
		Str("query", query).
		Int("results", len(res)).
		Msg("search")
	return res, nil
}

func (m *Matcher) candidates(ctx context.Context, store model.Store, src model.Source) (int, []model.ProductRecord, error) {
	limit := m.kb.Policy.CandidateLimit

	if ir, ok := m.reader.(IndexedReader); ok && m.useIndex {
		catalog, idx, err := ir.Snapshot(ctx, store)
		if err != nil {
			return 0, nil, fmt.Errorf("load %s catalog: %w", store, err)
		}
		if idx != nil && idx.Len() == len(catalog) {
			return len(catalog), m.CandidatesIndexed(catalog, idx, src.Name, src.ID, limit), nil
		}
		m.logger(ctx).Warn().Str("store", string(store)).Msg("index out of sync, falling back to scan")
		return len(catalog), m.Candidates(catalog, src.Name, src.ID, limit), nil
	}

	catalog, err := m.reader.GetAll(ctx, store)
	if err != nil {
		return 0, nil, fmt.Errorf("load %s catalog: %w", store, err)
	}
	return len(catalog), m.Candidates(catalog, src.Name, src.ID, limit), nil
}
