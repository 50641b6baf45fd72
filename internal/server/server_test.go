package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentlab/scentmatch/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "catalog.csv")
	content := "Brand,Name,Year,Categorys,Note\n" +
		"Acqua,Citrus Splash,2010,citrus,citrus fresh green aromatic\n" +
		"Nocturne,Dark Oud,2015,woody,oud leather smoke\n" +
		"Poudre,Soft Cloud,2018,powdery,iris vanilla almond\n" +
		"Marine,Sea Mist,2012,aquatic,clean fresh musk aquatic\n"
	require.NoError(t, os.WriteFile(catalogPath, []byte(content), 0o644))

	cfg := config.NewConfig()
	cfg.Catalog.Path = catalogPath
	cfg.Catalog.PictureDir = filepath.Join(dir, "picture")
	cfg.Embeddings.Provider = "static"
	cfg.Translate.Enabled = false
	cfg.History.Path = filepath.Join(dir, "history.db")
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecommendEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/recommend", recommendRequest{Query: "citrus fresh"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Items)
	assert.LessOrEqual(t, len(resp.Items), 5)
	assert.Equal(t, "Acqua", resp.Items[0].Brand)
	assert.Equal(t, "citrus fresh", resp.Query)
}

func TestRecommendEndpointDeterministic(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	first := postJSON(t, h, "/api/recommend", recommendRequest{Query: "citrus"})
	second := postJSON(t, h, "/api/recommend", recommendRequest{Query: "citrus"})

	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRecommendPrioritizesRawQueryKeywords(t *testing.T) {
	// Translation rewrites the query for retrieval; keyword boosting
	// still runs on the words the user typed.
	translated := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["citrus","시트러스",null,null]]]`))
	}))
	defer translated.Close()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	content := "Brand,Name,Year,Categorys,Note\n" +
		"Acqua,Citrus Splash,2010,citrus,citrus fresh green aromatic\n" +
		"Seoul,Citron Tea,2016,citrus,시트러스 유자 tea\n" +
		"Nocturne,Dark Oud,2015,woody,oud leather smoke\n"
	require.NoError(t, os.WriteFile(catalogPath, []byte(content), 0o644))

	cfg := config.NewConfig()
	cfg.Catalog.Path = catalogPath
	cfg.Catalog.PictureDir = filepath.Join(dir, "picture")
	cfg.Embeddings.Provider = "static"
	cfg.Translate.Enabled = true
	cfg.Translate.Endpoint = translated.URL
	cfg.History.Enabled = false

	srv, err := New(cfg, nil)
	require.NoError(t, err)

	rec := postJSON(t, srv.Handler(), "/api/recommend", recommendRequest{Query: "시트러스", K: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Items)

	// Only the Citron Tea notes contain the raw token "시트러스".
	assert.Equal(t, "Seoul", resp.Items[0].Brand)
	assert.Equal(t, "citrus", resp.Query)
}

func TestRecommendEndpointValidation(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/recommend", recommendRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendEndpointNoMatchesIsEmptyList(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// Punctuation-only query: tokenless, so the engine finds nothing.
	rec := postJSON(t, h, "/api/recommend", recommendRequest{Query: "!!! ???"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestRecommendEndpointUnreadableCatalogIs503(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.csv")

	srv, err := New(cfg, nil)
	require.NoError(t, err)

	rec := postJSON(t, srv.Handler(), "/api/recommend", recommendRequest{Query: "citrus"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Code)
}

func TestRecommendRecordsHistory(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/recommend", recommendRequest{Query: "citrus fresh"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/history/recent?limit=5", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "citrus fresh", entries[0]["query"])
}

func TestHistoryPicks(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/recommend", recommendRequest{Query: "citrus fresh"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/history/picks", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var picks []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &picks))
	require.Len(t, picks, 1)
	assert.Equal(t, "citrus fresh", picks[0]["query"])
	assert.Equal(t, "Acqua", picks[0]["brand"])
}

func TestHistoryDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false

	srv, err := New(cfg, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/history/recent", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestNoteImageEndpoint(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Catalog.PictureDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Catalog.PictureDir, "bergamot.webp"), []byte("img"), 0o644))

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/note-img/Bergamot", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "img", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/note-img/Unknown", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWeatherEndpointNoKey(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/weather", map[string]string{"city": "Seoul"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)
}
