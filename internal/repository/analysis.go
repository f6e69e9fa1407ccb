package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lk16/patzer/internal/models"
	"github.com/lk16/patzer/internal/services"
	"github.com/lk16/patzer/internal/uci"
)

const (
	cacheHitsField     = "cache_hits"
	analysesTotalField = "analyses"
	DefaultListLimit   = 20
	MaxListLimit       = 100
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// Analyzer runs the engine for a request.
type Analyzer interface {
	Analyze(request models.AnalysisRequest) (*models.Analysis, error)
}

// AnalysisRepository stores analyses in Postgres and caches them in Redis.
type AnalysisRepository struct {
	cache    Cache
	store    Store
	analyzer Analyzer
	cacheTTL time.Duration
}

// NewAnalysisRepository creates a new AnalysisRepository.
func NewAnalysisRepository(c *fiber.Ctx) *AnalysisRepository {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	return NewAnalysisRepositoryFromServices(services)
}

func NewAnalysisRepositoryFromServices(services *services.Services) *AnalysisRepository {
	repo := &AnalysisRepository{
		cache:    &redisCache{client: services.Redis},
		store:    &postgresStore{db: services.Postgres},
		cacheTTL: services.CacheTTL,
	}

	// a nil *analysis.Analyzer would make a non-nil interface
	if services.Analyzer != nil {
		repo.analyzer = services.Analyzer
	}

	return repo
}

// NewAnalysisRepositoryWith creates an AnalysisRepository on top of custom backends.
func NewAnalysisRepositoryWith(cache Cache, store Store, analyzer Analyzer, cacheTTL time.Duration) *AnalysisRepository {
	return &AnalysisRepository{
		cache:    cache,
		store:    store,
		analyzer: analyzer,
		cacheTTL: cacheTTL,
	}
}

// Analyze returns the cached analysis for a request, or runs the engine and stores the result.
// Cache and stats failures are logged and never fail the request.
func (repo *AnalysisRepository) Analyze(ctx context.Context, request models.AnalysisRequest) (*models.Analysis, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", err)
	}

	if repo.analyzer == nil {
		return nil, errors.New("no engine available")
	}

	key := request.CacheKey()

	analysis, err := repo.getCached(ctx, key)
	if err == nil {
		repo.incrementStats(ctx, cacheHitsField)
		return analysis, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.Error("Failed to read analysis cache", "key", key, "error", err)
	}

	analysis, err = repo.analyzer.Analyze(request)
	if err != nil {
		return nil, err
	}

	if err = repo.store.Save(ctx, analysis); err != nil {
		return nil, err
	}

	if err = repo.setCached(ctx, key, analysis); err != nil {
		slog.Error("Failed to write analysis cache", "key", key, "error", err)
	}

	repo.incrementStats(ctx, analysesTotalField, "score:"+uci.Score(analysis.Score).String())
	return analysis, nil
}

func (repo *AnalysisRepository) getCached(ctx context.Context, key string) (*models.Analysis, error) {
	jsonData, err := repo.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var analysis models.Analysis
	if err = json.Unmarshal(jsonData, &analysis); err != nil {
		return nil, fmt.Errorf("error unmarshaling cached analysis: %w", err)
	}

	return &analysis, nil
}

func (repo *AnalysisRepository) setCached(ctx context.Context, key string, analysis *models.Analysis) error {
	jsonData, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("error marshaling analysis: %w", err)
	}

	return repo.cache.Set(ctx, key, jsonData, repo.cacheTTL)
}

func (repo *AnalysisRepository) incrementStats(ctx context.Context, fields ...string) {
	if err := repo.cache.IncrementStats(ctx, fields...); err != nil {
		slog.Error("Failed to update analysis stats", "error", err)
	}
}

// SaveAnalysis inserts an analysis.
func (repo *AnalysisRepository) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	return repo.store.Save(ctx, analysis)
}

// GetAnalysis looks up an analysis by ID.
func (repo *AnalysisRepository) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	return repo.store.Get(ctx, id)
}

// ListAnalyses returns the most recent analyses, newest first.
func (repo *AnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]models.Analysis, error) {
	return repo.store.List(ctx, ClampListLimit(limit))
}

// GetStats returns the analysis counters kept in Redis.
func (repo *AnalysisRepository) GetStats(ctx context.Context) (map[string]int64, error) {
	values, err := repo.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(values))
	for field, value := range values {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing stat %s: %w", field, err)
		}
		stats[field] = count
	}

	return stats, nil
}

// ClampListLimit applies the default and maximum page size.
func ClampListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	return min(limit, MaxListLimit)
}
