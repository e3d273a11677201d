package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-match/internal/catalog"
	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/service"
	"price-match/internal/match/text"
)

const srcMilk = "Простоквашино Молоко 3.2% 930мл"

func setup(t *testing.T, mem *catalog.Memory) http.Handler {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	eng := service.NewEngine(kb, text.NewSuffixStemmer(kb.Suffixes))

	var reader service.CatalogReader = mem
	if mem == nil {
		mem = catalog.NewMemory()
		reader = mem
	}
	_, err = mem.Replace(model.Store5ka, []model.ProductRecord{
		{ID: "1", Name: srcMilk, Category: "Молоко", Price: 89},
		{ID: "2", Name: "Молоко Простоквашино 2.5% 930мл", Category: "Молоко", Price: 85},
	})
	require.NoError(t, err)
	_, err = mem.Replace(model.StoreMagnit, []model.ProductRecord{
		{ID: "m1", Name: "Молоко Простоквашино пастеризованное 3.2% 930 мл", Price: 79},
		{ID: "m2", Name: "Сметана Простоквашино 15% 300г", Price: 65},
	})
	require.NoError(t, err)

	m := service.NewMatcher(eng, reader, service.Options{UseIndex: true, Logger: zerolog.Nop()})
	r := chi.NewRouter()
	New(m, mem, 6, 1).Mount(r)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, map[string]json.RawMessage) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return rr.Code, body
}

func TestSimilar(t *testing.T) {
	h := setup(t, nil)
	code, body := do(t, h, httptest.NewRequest(http.MethodGet, "/stores/5ka/products/1/similar", nil))
	require.Equal(t, http.StatusOK, code)

	var similar []model.ScoredCandidate
	require.NoError(t, json.Unmarshal(body["similar"], &similar))
	require.Len(t, similar, 1)
	assert.Equal(t, "2", similar[0].ID)
	assert.True(t, similar[0].IsCheaper)

	var src model.ProductRecord
	require.NoError(t, json.Unmarshal(body["source"], &src))
	assert.Equal(t, srcMilk, src.Name)
}

func TestCompare(t *testing.T) {
	h := setup(t, nil)
	code, body := do(t, h, httptest.NewRequest(http.MethodGet, "/stores/5ka/products/1/compare?limit=3", nil))
	require.Equal(t, http.StatusOK, code)

	var match model.ScoredCandidate
	require.NoError(t, json.Unmarshal(body["match"], &match))
	assert.Equal(t, "m1", match.ID)
	assert.Equal(t, 97, match.SimilarityScore)
	assert.Equal(t, -10.0, match.PriceDiff)

	var other map[string]string
	require.NoError(t, json.Unmarshal(body["otherStore"], &other))
	assert.Equal(t, "magnit", other["id"])
}

func TestNotFound(t *testing.T) {
	h := setup(t, nil)
	for _, url := range []string{
		"/stores/lenta/products/1/similar",
		"/stores/5ka/products/404/similar",
		"/stores/5ka/products/404/compare",
		"/stores/lenta/search?q=молоко",
	} {
		code, body := do(t, h, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusNotFound, code, url)
		assert.Contains(t, body, "error")
	}
}

func TestSearch(t *testing.T) {
	h := setup(t, nil)
	code, body := do(t, h, httptest.NewRequest(http.MethodGet, "/stores/5ka/search?q=%D0%BC%D0%BE%D0%BB%D0%BE%D0%BA%D0%BE&limit=1", nil))
	require.Equal(t, http.StatusOK, code)

	var items []model.SearchResult
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 1)
	// равная релевантность и длина названия: побеждает меньший id
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, service.RelWholeWord, items[0].Relevance)

	code, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/stores/5ka/search", nil))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestExtract(t *testing.T) {
	h := setup(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"name":"`+srcMilk+`"}`))
	code, body := do(t, h, req)
	require.Equal(t, http.StatusOK, code)

	var a model.Attributes
	require.NoError(t, json.Unmarshal(body["attributes"], &a))
	assert.Equal(t, "молоко", a.ProductType)
	assert.Equal(t, "Простоквашино", a.Brand)
	require.NotNil(t, a.VolumeML)
	assert.Equal(t, 930.0, *a.VolumeML)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"name":" "}`)))
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, code)
}

func uploadRequest(t *testing.T, url, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCatalog(t *testing.T) {
	mem := catalog.NewMemory()
	h := setup(t, mem)

	csv := "Артикул;Товар;Стоимость\n" +
		"k1;Кефир Простоквашино 1% 930мл;70\n" +
		"k2;Кефир Простоквашино 2.5% 930мл;75\n"
	req := uploadRequest(t, "/stores/magnit/catalog", "magnit.csv", csv, map[string]string{"price": "Стоимость"})
	code, body := do(t, h, req)
	require.Equal(t, http.StatusOK, code, string(body["error"]))
	assert.JSONEq(t, `2`, string(body["loaded"]))

	assert.Equal(t, 2, mem.Len(model.StoreMagnit))
	got, err := mem.GetOne(context.Background(), model.StoreMagnit, "k2")
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.Price)

	// старый снимок заменён целиком
	code, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/stores/magnit/products/m1/similar", nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUploadCatalogErrors(t *testing.T) {
	h := setup(t, nil)

	req := uploadRequest(t, "/stores/5ka/catalog", "x.csv", "sku,qty\n1,2\n", nil)
	code, _ := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)

	req = uploadRequest(t, "/stores/lenta/catalog", "x.csv", "name\nМолоко\n", nil)
	code, _ = do(t, h, req)
	assert.Equal(t, http.StatusNotFound, code)

	req = httptest.NewRequest(http.MethodPost, "/stores/5ka/catalog", strings.NewReader("plain"))
	code, _ = do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUploadCatalogWithoutMemory(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)
	m := service.NewMatcher(service.NewEngine(kb, text.NewSuffixStemmer(kb.Suffixes)), catalog.NewMemory(), service.Options{})
	r := chi.NewRouter()
	New(m, nil, 6, 1).Mount(r)

	req := uploadRequest(t, "/stores/5ka/catalog", "x.csv", "name\nМолоко\n", nil)
	code, _ := do(t, r, req)
	assert.Equal(t, http.StatusNotImplemented, code)
}
