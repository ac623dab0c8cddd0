package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string `yaml:"port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_secs"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// StorageConfig selects where conversations and orders are kept.
type StorageConfig struct {
	Type     string `yaml:"type"`
	MongoURI string `yaml:"mongo_uri"`
	Database string `yaml:"database"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Type        string `yaml:"type"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
}

// GenerationConfig configures the reply generator.
type GenerationConfig struct {
	Type        string  `yaml:"type"`
	ModelID     string  `yaml:"model_id"`
	Region      string  `yaml:"region"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
}

// RetrievalConfig controls knowledge-base lookups per turn.
type RetrievalConfig struct {
	TopK          int `yaml:"top_k"`
	HistoryWindow int `yaml:"history_window"`
}

// IntentConfig selects the stage inference policy: "similarity" or "count".
type IntentConfig struct {
	Policy string `yaml:"policy"`
}

// PricingConfig holds the margin band and policy ("historical" or "random").
type PricingConfig struct {
	MarginPolicy  string  `yaml:"margin_policy"`
	MinMargin     float64 `yaml:"min_margin"`
	MaxMargin     float64 `yaml:"max_margin"`
	DefaultMargin float64 `yaml:"default_margin"`
	Currency      string  `yaml:"currency"`
}

// DocumentsConfig points the ingestion pipeline at an object store location.
type DocumentsConfig struct {
	BaseURL string `yaml:"base_url"`
	Prefix  string `yaml:"prefix"`
}

// CRMConfig configures the order sink.
type CRMConfig struct {
	Type        string `yaml:"type"`
	APIURL      string `yaml:"api_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DevMode    bool             `yaml:"dev_mode"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Intent     IntentConfig     `yaml:"intent"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Documents  DocumentsConfig  `yaml:"documents"`
	CRM        CRMConfig        `yaml:"crm"`
}

// Load reads a config from path. A missing file yields defaults. Environment
// variables override file values for mode flags and endpoints.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		DevMode:    true,
		Server:     ServerConfig{Port: "8000", ShutdownTimeout: 5},
		Log:        LogConfig{Level: "info", JSON: true},
		Storage:    StorageConfig{Type: "memory", Database: "SalesAssistant"},
		Embedding:  EmbeddingConfig{Type: "hash", Dimension: 1536, TimeoutSecs: 10},
		Generation: GenerationConfig{Type: "mock", ModelID: "eu.anthropic.claude-3-7-sonnet-20250219-v1:0", Region: "us-east-1", MaxTokens: 1024, Temperature: 0.7, TimeoutSecs: 30, MaxRetries: 2},
		Retrieval:  RetrievalConfig{TopK: 3, HistoryWindow: 5},
		Intent:     IntentConfig{Policy: "similarity"},
		Pricing:    PricingConfig{MarginPolicy: "historical", MinMargin: 1.12, MaxMargin: 1.18, DefaultMargin: 1.15, Currency: "USD"},
		Documents:  DocumentsConfig{BaseURL: "file://localhost/tmp/sales-docs", Prefix: ""},
		CRM:        CRMConfig{Type: "mock", APIURL: "https://api.example-crm.com/v1", APIKeyEnv: "CRM_API_KEY", TimeoutSecs: 15},
	}
}

// Duration converts a seconds field to a time.Duration.
func Duration(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}

func applyEnvOverrides(cfg *AppConfig) {
	cfg.DevMode = GetEnvBool("DEV_MODE", cfg.DevMode)
	cfg.Server.Port = GetEnvDefault("PORT", cfg.Server.Port)
	cfg.Log.Level = GetEnvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Storage.MongoURI = GetEnvDefault("MONGODB_URI", cfg.Storage.MongoURI)
	cfg.Generation.Region = GetEnvDefault("AWS_REGION", cfg.Generation.Region)
	cfg.Generation.ModelID = GetEnvDefault("BEDROCK_MODEL_ID", cfg.Generation.ModelID)
	cfg.CRM.APIURL = GetEnvDefault("CRM_API_URL", cfg.CRM.APIURL)
	cfg.Documents.BaseURL = GetEnvDefault("DOCUMENTS_URL", cfg.Documents.BaseURL)
	if !cfg.DevMode {
		if cfg.Generation.Type == "mock" {
			cfg.Generation.Type = "bedrock"
		}
		if cfg.Embedding.Type == "hash" {
			cfg.Embedding.Type = "bedrock"
		}
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 1536
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 10
	}
	if cfg.Embedding.Type == "bedrock" && cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "amazon.titan-embed-text-v1"
	}
	if cfg.Embedding.Type == "openai" {
		if cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedding.APIKeyEnv == "" {
			cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedding.Model == "" {
			cfg.Embedding.Model = "text-embedding-3-small"
		}
	}
	if cfg.Generation.TimeoutSecs == 0 {
		cfg.Generation.TimeoutSecs = 30
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 1024
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.HistoryWindow == 0 {
		cfg.Retrieval.HistoryWindow = 5
	}
	if cfg.Intent.Policy == "" {
		cfg.Intent.Policy = "similarity"
	}
	if cfg.Pricing.MarginPolicy == "" {
		cfg.Pricing.MarginPolicy = "historical"
	}
	if cfg.Pricing.MinMargin == 0 {
		cfg.Pricing.MinMargin = 1.12
	}
	if cfg.Pricing.MaxMargin == 0 {
		cfg.Pricing.MaxMargin = 1.18
	}
	if cfg.Pricing.DefaultMargin == 0 {
		cfg.Pricing.DefaultMargin = 1.15
	}
	if cfg.Pricing.Currency == "" {
		cfg.Pricing.Currency = "USD"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.Database == "" {
		cfg.Storage.Database = "SalesAssistant"
	}
	if cfg.CRM.Type == "" {
		cfg.CRM.Type = "mock"
	}
	if cfg.CRM.TimeoutSecs == 0 {
		cfg.CRM.TimeoutSecs = 15
	}
}
