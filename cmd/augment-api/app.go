package main

import (
	"database/sql"

	"github.com/storelens/knowledge-augment/internal/cache"
	"github.com/storelens/knowledge-augment/internal/classify"
	"github.com/storelens/knowledge-augment/internal/config"
	"github.com/storelens/knowledge-augment/internal/embedding"
	"github.com/storelens/knowledge-augment/internal/knowledge"
	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/queryroute"
	"github.com/storelens/knowledge-augment/internal/storage"
	"github.com/storelens/knowledge-augment/internal/strategy"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
	"github.com/storelens/knowledge-augment/pkg/engine"
)

// App holds the wired pipeline plus the handles the router needs for
// readiness checks and shutdown.
type App struct {
	Engine *engine.Engine
	DB     *sql.DB
	Cache  cache.Client
	logger *observability.Logger
}

// buildApp wires the pipeline from configuration. Database and embedding
// credentials are optional: without them the knowledge adapter degrades to
// the static taxonomy tier and the server still answers every request.
func buildApp(logger *observability.Logger, cfg *config.Config) (*App, error) {
	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		loaded, err := taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			return nil, err
		}
		tax = loaded
	}

	lex := queryroute.DefaultLexicon()
	if cfg.Router.LexiconPath != "" {
		loaded, err := queryroute.LoadLexicon(cfg.Router.LexiconPath)
		if err != nil {
			return nil, err
		}
		lex = loaded
	}

	var db *sql.DB
	var store knowledge.Store
	if cfg.Database.DSN != "" {
		opened, err := storage.Open(storage.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			// The store is an availability tier, not a hard dependency.
			logger.Warn().Err(err).Msg("Knowledge store unavailable, serving static tier only")
		} else {
			db = opened
			store = storage.NewChunkRepository(db)
		}
	}

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		client, err := embedding.NewClient(embedding.Config{
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			BaseURL: cfg.Embedding.BaseURL,
			Timeout: cfg.Embedding.Timeout,
		})
		if err != nil {
			return nil, err
		}
		embedder = client
	}

	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using in-memory cache")
			cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			cacheClient = redisClient
		}
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	adapter := knowledge.New(logger, store, embedder, tax, knowledge.Config{
		VectorTimeout:    cfg.Retrieval.VectorTimeout,
		VectorThreshold:  cfg.Retrieval.VectorThreshold,
		MinUsefulResults: cfg.Retrieval.MinUsefulResults,
		TrigramThreshold: cfg.Retrieval.TrigramThreshold,
		StaticSimilarity: cfg.Retrieval.StaticSimilarity,
		DefaultLimit:     cfg.Retrieval.DefaultLimit,
	})

	planner := strategy.New(queryroute.New(lex, tax), tax, strategy.Config{
		SufficiencyThreshold: cfg.Strategy.SufficiencyThreshold,
		DeepeningBonus:       cfg.Strategy.DeepeningBonus,
		CrossReferenceBonus:  cfg.Strategy.CrossReferenceBonus,
		MaxEntityQueries:     cfg.Strategy.MaxEntityQueries,
		QueryRuneLimit:       cfg.Strategy.QueryRuneLimit,
	})

	eng := engine.New(logger, classify.New(tax), adapter, planner, cacheClient, cfg.Cache.TTL)

	return &App{
		Engine: eng,
		DB:     db,
		Cache:  cacheClient,
		logger: logger,
	}, nil
}

// Close releases database and cache connections.
func (a *App) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Closing database failed")
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Closing cache failed")
		}
	}
}
