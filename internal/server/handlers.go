package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/scentlab/scentmatch/internal/catalog"
	scenterrors "github.com/scentlab/scentmatch/internal/errors"
	"github.com/scentlab/scentmatch/internal/history"
	"github.com/scentlab/scentmatch/internal/search"
)

// recommendRequest is the body of POST /api/recommend.
type recommendRequest struct {
	Query string `json:"query"`
	// City enables weather-aware scoring when set.
	City string `json:"city,omitempty"`
	// K overrides the configured result count.
	K int `json:"k,omitempty"`
}

// recommendItem is one recommendation in the response.
type recommendItem struct {
	Brand    string  `json:"brand"`
	Name     string  `json:"name"`
	Year     *int    `json:"year,omitempty"`
	Score    float64 `json:"score"`
	Semantic float64 `json:"semantic"`
	Lexical  float64 `json:"lexical"`
	Context  float64 `json:"context"`
	Notes    string  `json:"notes,omitempty"`
	Image    string  `json:"image,omitempty"`
}

type recommendResponse struct {
	Query   string          `json:"query"`
	Weather string          `json:"weather,omitempty"`
	Items   []recommendItem `json:"items"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// handleRecommend runs the full recommendation flow: best-effort
// translation, optional weather lookup, wide retrieval, keyword
// prioritization and the final cut. An engine that cannot be built is a
// 503; a query that simply matches nothing is a 200 with an empty list.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, scenterrors.ValidationError("invalid JSON body", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, scenterrors.ValidationError("query is required", nil))
		return
	}

	ctx := r.Context()

	engine, err := s.provider.Get(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if scenterrors.IsLoadFailure(err) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}

	query := s.translator.ToEnglish(ctx, req.Query)

	var weatherDesc string
	if req.City != "" {
		report, err := s.weather.Lookup(ctx, req.City)
		if err != nil {
			// Weather is an enrichment, not a requirement.
			s.logger.Warn("weather_lookup_failed",
				slog.String("city", req.City),
				slog.String("error", err.Error()))
		} else {
			weatherDesc = report.Description
		}
	}

	k := req.K
	if k <= 0 {
		k = s.cfg.Search.ReturnK
	}

	// Retrieve double-width, let literal keyword hits float up, then cut.
	wide, err := engine.Recommend(ctx, query, weatherDesc, 2*k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Keyword hits are matched against the query as the user typed it,
	// not the translated form fed to the engine.
	results := search.PrioritizeKeywords(wide, req.Query)
	if len(results) > k {
		results = results[:k]
	}

	items := make([]recommendItem, 0, len(results))
	for _, res := range results {
		items = append(items, s.toItem(res))
	}

	s.recordHistory(r, req, weatherDesc, results)

	writeJSON(w, http.StatusOK, recommendResponse{
		Query:   query,
		Weather: weatherDesc,
		Items:   items,
	})
}

// toItem converts an engine result to its API shape.
func (s *Server) toItem(res search.Result) recommendItem {
	item := recommendItem{
		Brand:    res.Document.Brand,
		Name:     res.Document.Name,
		Year:     res.Document.Year,
		Score:    res.Score,
		Semantic: res.Semantic,
		Lexical:  res.Lexical,
		Context:  res.Context,
		Notes:    catalog.NormalizeField(res.Document.Raw["Note"]),
	}

	if img, ok := s.images.Resolve(res.Document.Name); ok {
		item.Image = img
	}
	return item
}

// recordHistory saves the recommendation when history is enabled.
// Failures are logged, never surfaced to the client.
func (s *Server) recordHistory(r *http.Request, req recommendRequest, weatherDesc string, results []search.Result) {
	if s.history == nil || len(results) == 0 {
		return
	}

	items := make([]history.Item, 0, len(results))
	for _, res := range results {
		items = append(items, history.Item{
			Brand: res.Document.Brand,
			Name:  res.Document.Name,
			Score: res.Score,
		})
	}

	if _, err := s.history.Record(r.Context(), req.Query, req.City, weatherDesc, items); err != nil {
		s.logger.Warn("history_record_failed", slog.String("error", err.Error()))
	}
}

// handleWeather is a direct weather lookup, mostly for client display.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, scenterrors.ValidationError("invalid JSON body", err))
		return
	}

	report, err := s.weather.Lookup(r.Context(), req.City)
	if err != nil {
		status := http.StatusBadGateway
		if scenterrors.GetCode(err) == scenterrors.ErrCodeInvalidInput {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleHistoryRecent lists recent recommendations.
func (s *Server) handleHistoryRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleHistoryPicks previews the top item of each recent entry.
func (s *Server) handleHistoryPicks(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Pick{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	picks, err := s.history.FirstPicks(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// handleNoteImage serves the picture for a note name, falling back to
// the placeholder image for unknown notes.
func (s *Server) handleNoteImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, ok := s.images.Resolve(name)
	if !ok {
		writeError(w, http.StatusNotFound,
			scenterrors.ValidationError("no image for note "+name, nil))
		return
	}

	// Note images never change for a given name.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

// handleHealth reports liveness and whether the engine is built.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the structured error shape.
func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}

	if se, ok := scenterrors.As(err); ok {
		resp.Code = se.Code
		resp.Suggestion = se.Suggestion
	}

	writeJSON(w, status, resp)
}
