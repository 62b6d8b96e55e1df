// Package config provides unified configuration loading for the augmentation
// engine. Supports YAML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Strategy      StrategyConfig      `yaml:"strategy"`
	Taxonomy      TaxonomyConfig      `yaml:"taxonomy"`
	Router        RouterConfig        `yaml:"router"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// EmbeddingConfig holds embedding service settings.
type EmbeddingConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RetrievalConfig tunes the tiered knowledge cascade.
type RetrievalConfig struct {
	VectorTimeout    time.Duration `yaml:"vector_timeout"`
	VectorThreshold  float64       `yaml:"vector_threshold"`
	MinUsefulResults int           `yaml:"min_useful_results"`
	TrigramThreshold float64       `yaml:"trigram_threshold"`
	StaticSimilarity float64       `yaml:"static_similarity"`
	DefaultLimit     int           `yaml:"default_limit"`
}

// StrategyConfig tunes the search decision engine.
type StrategyConfig struct {
	SufficiencyThreshold int `yaml:"sufficiency_threshold"`
	DeepeningBonus       int `yaml:"deepening_bonus"`
	CrossReferenceBonus  int `yaml:"cross_reference_bonus"`
	MaxEntityQueries     int `yaml:"max_entity_queries"`
	QueryRuneLimit       int `yaml:"query_rune_limit"`
}

// TaxonomyConfig locates the topic corpus; empty means the built-in set.
type TaxonomyConfig struct {
	Path string `yaml:"path"`
}

// RouterConfig locates the entity-detection lexicon; empty means built-in.
type RouterConfig struct {
	LexiconPath string `yaml:"lexicon_path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file (optional) and applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KA_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("KA_REDIS_ADDR"); v != "" {
		c.Cache.Driver = "redis"
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KA_EMBEDDING_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("KA_EMBEDDING_BASE_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("KA_LOG_LEVEL"); v != "" {
		c.Observability.LogLevel = v
	}
	if v := os.Getenv("KA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.GracefulShutdown == 0 {
		c.Server.GracefulShutdown = 10 * time.Second
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 1024
	}

	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = 10 * time.Second
	}

	if c.Retrieval.VectorTimeout == 0 {
		c.Retrieval.VectorTimeout = time.Second
	}
	if c.Retrieval.VectorThreshold == 0 {
		c.Retrieval.VectorThreshold = 0.65
	}
	if c.Retrieval.MinUsefulResults == 0 {
		c.Retrieval.MinUsefulResults = 2
	}
	if c.Retrieval.TrigramThreshold == 0 {
		c.Retrieval.TrigramThreshold = 0.1
	}
	if c.Retrieval.StaticSimilarity == 0 {
		c.Retrieval.StaticSimilarity = 0.5
	}
	if c.Retrieval.DefaultLimit == 0 {
		c.Retrieval.DefaultLimit = 5
	}

	if c.Strategy.SufficiencyThreshold == 0 {
		c.Strategy.SufficiencyThreshold = 3
	}
	if c.Strategy.DeepeningBonus == 0 {
		c.Strategy.DeepeningBonus = 1
	}
	if c.Strategy.CrossReferenceBonus == 0 {
		c.Strategy.CrossReferenceBonus = 2
	}
	if c.Strategy.MaxEntityQueries == 0 {
		c.Strategy.MaxEntityQueries = 3
	}
	if c.Strategy.QueryRuneLimit == 0 {
		c.Strategy.QueryRuneLimit = 40
	}

	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "knowledge-augment"
	}
}
