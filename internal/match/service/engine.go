package service

import (
	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/text"
)

// Engine: чистое ядро сопоставления: без каталога, без ввода-вывода.
// Справочники только читаются, поэтому Engine можно делить между горутинами.
type Engine struct {
	kb     *knowledge.Tables
	stem   text.Stemmer
	ext    *Extractor
	scorer *Scorer
}

func NewEngine(kb *knowledge.Tables, stem text.Stemmer) *Engine {
	return &Engine{
		kb:     kb,
		stem:   stem,
		ext:    NewExtractor(kb),
		scorer: NewScorer(kb, stem),
	}
}

func (e *Engine) Tables() *knowledge.Tables { return e.kb }

func (e *Engine) Extract(name string) model.Attributes {
	return e.ext.Extract(name)
}

// Score извлекает атрибуты обоих названий и считает схожесть.
func (e *Engine) Score(nameA, nameB string) int {
	return e.scorer.Score(e.ext.Extract(nameA), e.ext.Extract(nameB), nameA, nameB)
}
