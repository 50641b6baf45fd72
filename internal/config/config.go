// Package config loads and validates scentmatch configuration.
//
// Configuration is resolved in three layers, later layers winning:
//  1. Built-in defaults (NewConfig)
//  2. YAML config file (scentmatch.yaml)
//  3. Environment variables (SCENTMATCH_*)
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete scentmatch configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog" json:"catalog"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Weather    WeatherConfig    `yaml:"weather" json:"weather"`
	Translate  TranslateConfig  `yaml:"translate" json:"translate"`
	History    HistoryConfig    `yaml:"history" json:"history"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// CatalogConfig configures the fragrance catalog source.
type CatalogConfig struct {
	// Path is the catalog CSV file.
	Path string `yaml:"path" json:"path"`
	// PictureDir is the directory holding note images.
	PictureDir string `yaml:"picture_dir" json:"picture_dir"`
}

// SearchConfig configures hybrid retrieval and diversification.
// The three weights need not sum to 1; only their ratio matters for ranking.
type SearchConfig struct {
	// SemanticWeight is the weight for embedding similarity.
	SemanticWeight float64 `yaml:"semantic_weight" json:"semantic_weight"`

	// LexicalWeight is the weight for BM25 keyword matching.
	LexicalWeight float64 `yaml:"lexical_weight" json:"lexical_weight"`

	// ContextWeight is the weight for weather tag affinity.
	ContextWeight float64 `yaml:"context_weight" json:"context_weight"`

	// PoolSize is the size of the first-stage candidate pool.
	PoolSize int `yaml:"pool_size" json:"pool_size"`

	// ReturnK is the number of final recommendations.
	ReturnK int `yaml:"return_k" json:"return_k"`

	// MMRLambda is the diversification strength (1.0 = pure relevance).
	MMRLambda float64 `yaml:"mmr_lambda" json:"mmr_lambda"`

	// RandomSeed seeds the exploration substitution for reproducible output.
	RandomSeed int64 `yaml:"random_seed" json:"random_seed"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder backend: "ollama", "static", or ""
	// for auto-detection (ollama with static fallback).
	Provider string `yaml:"provider" json:"provider"`
	// Model is the embedding model identifier.
	Model string `yaml:"model" json:"model"`
	// Dimensions is the embedding dimension (0 = auto-detect).
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	// BatchSize is texts per embedding request.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// CacheSize is the query-embedding LRU cache capacity.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// OllamaHost is the Ollama API endpoint (default http://localhost:11434).
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`
}

// WeatherConfig configures the OpenWeatherMap client.
type WeatherConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Lang is the description language requested from the API.
	Lang string `yaml:"lang" json:"lang"`
	// TimeoutSeconds bounds a single lookup.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// TranslateConfig configures best-effort query translation.
type TranslateConfig struct {
	// Enabled toggles translation of user queries to English.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Endpoint is the translation API endpoint.
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// TimeoutSeconds bounds a single translation call.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// HistoryConfig configures recommendation history persistence.
type HistoryConfig struct {
	// Enabled toggles history persistence.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Path is the SQLite database file.
	Path string `yaml:"path" json:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:       "per_data.csv",
			PictureDir: "static/picture",
		},
		Search: SearchConfig{
			SemanticWeight: 0.6,
			LexicalWeight:  0.25,
			ContextWeight:  0.15,
			PoolSize:       30,
			ReturnK:        5,
			MMRLambda:      0.7,
			RandomSeed:     42,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "", // Empty triggers auto-detection: Ollama -> Static
			Model:      "all-minilm",
			Dimensions: 0, // Auto-detect from embedder
			BatchSize:  64,
			CacheSize:  1000,
			OllamaHost: "", // Empty uses default http://localhost:11434
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.openweathermap.org/data/2.5",
			Lang:           "kr",
			TimeoutSeconds: 5,
		},
		Translate: TranslateConfig{
			Enabled:        true,
			Endpoint:       "https://translate.googleapis.com/translate_a/single",
			TimeoutSeconds: 5,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "scentmatch.db",
		},
		Server: ServerConfig{
			Addr:     ":8765",
			LogLevel: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and applies
// environment overrides. A missing file is not an error; the defaults
// plus environment are used.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies SCENTMATCH_* environment variables.
// Environment has the highest priority.
func (c *Config) applyEnvOverrides() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("SCENTMATCH_CATALOG_PATH", &c.Catalog.Path)
	setString("SCENTMATCH_PICTURE_DIR", &c.Catalog.PictureDir)

	setFloat("SCENTMATCH_W_SEMANTIC", &c.Search.SemanticWeight)
	setFloat("SCENTMATCH_W_LEXICAL", &c.Search.LexicalWeight)
	setFloat("SCENTMATCH_W_CONTEXT", &c.Search.ContextWeight)
	setInt("SCENTMATCH_POOL_SIZE", &c.Search.PoolSize)
	setInt("SCENTMATCH_RETURN_K", &c.Search.ReturnK)
	setFloat("SCENTMATCH_MMR_LAMBDA", &c.Search.MMRLambda)
	if v := os.Getenv("SCENTMATCH_RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Search.RandomSeed = n
		}
	}

	setString("SCENTMATCH_EMBEDDINGS_PROVIDER", &c.Embeddings.Provider)
	setString("SCENTMATCH_EMBEDDINGS_MODEL", &c.Embeddings.Model)
	setString("SCENTMATCH_OLLAMA_HOST", &c.Embeddings.OllamaHost)

	setString("SCENTMATCH_WEATHER_API_KEY", &c.Weather.APIKey)
	setString("SCENTMATCH_WEATHER_BASE_URL", &c.Weather.BaseURL)

	setString("SCENTMATCH_HISTORY_PATH", &c.History.Path)
	setString("SCENTMATCH_ADDR", &c.Server.Addr)
	setString("SCENTMATCH_LOG_LEVEL", &c.Server.LogLevel)
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.SemanticWeight < 0 || c.Search.LexicalWeight < 0 || c.Search.ContextWeight < 0 {
		return fmt.Errorf("fusion weights must be non-negative")
	}
	if c.Search.SemanticWeight+c.Search.LexicalWeight+c.Search.ContextWeight == 0 {
		return fmt.Errorf("at least one fusion weight must be positive")
	}
	if c.Search.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.Search.PoolSize)
	}
	if c.Search.ReturnK <= 0 {
		return fmt.Errorf("return_k must be positive, got %d", c.Search.ReturnK)
	}
	if c.Search.MMRLambda < 0 || c.Search.MMRLambda > 1 {
		return fmt.Errorf("mmr_lambda must be in [0,1], got %v", c.Search.MMRLambda)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	return nil
}
