package services

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/patzer/internal/analysis"
	"github.com/lk16/patzer/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services contains the connections to the external services and the engine.
type Services struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
	Analyzer *analysis.Analyzer
	CacheTTL time.Duration
}

// InitServices connects to Postgres and Redis. The analyzer is owned by the caller, who starts the engine.
func InitServices(cfg *config.ServerConfig, analyzer *analysis.Analyzer) (*Services, error) {
	postgres, err := InitPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	redis, err := InitRedis(cfg.RedisURL)
	if err != nil {
		postgres.Close()
		return nil, err
	}

	return &Services{
		Postgres: postgres,
		Redis:    redis,
		Analyzer: analyzer,
		CacheTTL: cfg.CacheTTL,
	}, nil
}

// Close closes the connections.
func (s *Services) Close() {
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}
