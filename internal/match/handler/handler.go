package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"price-match/internal/catalog"
	"price-match/internal/fileio"
	"price-match/internal/match/model"
	"price-match/internal/match/service"
	"price-match/internal/match/text"
)

const (
	maxLimit       = 100
	defSearchLimit = 50
)

type Handler struct {
	m         *service.Matcher
	mem       *catalog.Memory // nil, если каталоги не в памяти
	defLimit  int
	maxUpload int64
}

func New(m *service.Matcher, mem *catalog.Memory, defLimit, maxUploadMB int) *Handler {
	return &Handler{m: m, mem: mem, defLimit: defLimit, maxUpload: int64(maxUploadMB) << 20}
}

// Mount регистрирует маршруты сопоставления.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/extract", h.Extract)
	r.Route("/stores/{store}", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Post("/catalog", h.UploadCatalog)
		r.Get("/products/{id}/similar", h.Similar)
		r.Get("/products/{id}/compare", h.Compare)
	})
}

// source находит товар из URL. При ошибке ответ уже записан.
func (h *Handler) source(w http.ResponseWriter, r *http.Request) (model.ProductRecord, bool) {
	store, err := model.ParseStore(chi.URLParam(r, "store"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown store")
		return model.ProductRecord{}, false
	}
	rec, err := h.m.Product(r.Context(), store, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, "product not found")
		return model.ProductRecord{}, false
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("store", string(store)).Msg("get product")
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return model.ProductRecord{}, false
	}
	return rec, true
}

// Similar: GET /stores/{store}/products/{id}/similar, похожие в том же магазине.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.source(w, r)
	if !ok {
		return
	}
	res, err := h.m.FindSimilar(r.Context(), rec.Store, model.SourceOf(rec), limitParam(r, h.defLimit, maxLimit))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("find similar")
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"source":  rec,
		"similar": res,
	})
}

// Compare: GET /stores/{store}/products/{id}/compare, тот же товар и похожие в другом магазине.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.source(w, r)
	if !ok {
		return
	}
	other, _ := model.OtherStore(rec.Store)
	match, similar, err := h.m.Compare(r.Context(), model.SourceOf(rec), limitParam(r, h.defLimit, maxLimit))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("compare")
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"source":     rec,
		"otherStore": map[string]string{"id": string(other), "name": other.Name()},
		"match":      match,
		"similar":    similar,
	})
}

// Search: GET /stores/{store}/search?q=&category=&limit=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	store, err := model.ParseStore(chi.URLParam(r, "store"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown store")
		return
	}
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "missing q")
		return
	}
	res, err := h.m.Search(r.Context(), store, query, q.Get("category"), limitParam(r, defSearchLimit, 1000))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("search")
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"query": query,
		"items": res,
	})
}

type extractRequest struct {
	Name string `json:"name"`
}

// Extract: POST /extract {"name": "..."}, разбор названия (диагностика справочников).
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "missing name")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":       req.Name,
		"normalized": text.Normalize(req.Name),
		"tokens":     text.Tokenize(text.Normalize(req.Name)),
		"attributes": h.m.Extract(req.Name),
		"terms":      h.m.Terms(req.Name),
	})
}

// UploadCatalog: POST /stores/{store}/catalog, multipart file + поля маппинга.
// Заменяет снимок каталога в памяти.
func (h *Handler) UploadCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := zerolog.Ctx(r.Context())

	if h.mem == nil {
		writeError(w, r, http.StatusNotImplemented, "catalog upload requires CATALOG_DRIVER=files")
		return
	}
	store, err := model.ParseStore(chi.URLParam(r, "store"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown store")
		return
	}
	defer r.Body.Close()
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	mapping := fileio.Mapping{
		IDKey:       r.FormValue("id"),
		NameKey:     r.FormValue("name"),
		CategoryKey: r.FormValue("category"),
		PriceKey:    r.FormValue("price"),
		HeaderRow:   atoi(r.FormValue("header_row"), 1),
	}
	recs, err := fileio.ReadCatalog(file, header.Filename, store, mapping)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read catalog: "+err.Error())
		return
	}
	n, err := h.mem.Replace(store, recs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().
		Str("store", string(store)).
		Str("file", header.Filename).
		Int("rows", len(recs)).
		Int("loaded", n).
		Dur("elapsed", time.Since(start)).
		Msg("catalog replaced")

	writeJSON(w, r, http.StatusOK, map[string]any{
		"store":  store,
		"loaded": n,
	})
}
