// Package translate converts user queries to English on a best-effort
// basis. The catalog's searchable text is mostly English, so translating
// a Korean query improves both legs of retrieval. Failures are soft: the
// caller gets the original text back and retrieval proceeds untranslated.
package translate

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultEndpoint is the unauthenticated Google translate endpoint. It
// needs no API key but offers no SLA, hence the soft-failure policy.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Config configures the translator.
type Config struct {
	Enabled  bool
	Endpoint string
	Timeout  time.Duration
}

// Translator translates text to English.
type Translator struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a translator.
func New(cfg Config, logger *slog.Logger) *Translator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ToEnglish translates text to English. Any failure (network, status,
// parse) returns the input unchanged; translation is never a reason to
// fail a recommendation.
func (t *Translator) ToEnglish(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !t.cfg.Enabled {
		return text
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", "en")
	q.Set("dt", "t")
	q.Set("q", trimmed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return text
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("translate_failed", slog.String("error", err.Error()))
		return text
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.logger.Debug("translate_failed", slog.Int("status", resp.StatusCode))
		return text
	}

	// Response shape: [[["translated","original",...],...],...]
	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) == 0 {
		return text
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return text
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return text
	}
	return out
}
