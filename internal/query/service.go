// Package query executes translated intents against PostgreSQL with an
// optional Redis result cache.
package query

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nlquery/internal/analyzer"
	"nlquery/internal/common/logger"
	"nlquery/internal/common/metrics"
	"nlquery/internal/models"
	"nlquery/internal/translator"
)

const cacheKeyPrefix = "nlquery:result:"

// Service runs the translate-execute-summarize pipeline.
type Service struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService builds a Service. redisClient may be nil, which disables the
// result cache.
func NewService(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "query-service"}),
	}
}

// Process translates one phrase and executes the resulting SQL. Failures are
// returned as data in the result, never as an error.
func (s *Service) Process(ctx context.Context, nlQuery string) *models.QueryResult {
	start := time.Now()
	queryID := uuid.NewString()
	intent := translator.Translate(nlQuery)

	if intent.Error != "" {
		metrics.QueriesFailed.WithLabelValues(string(intent.QueryType), intent.Error).Inc()
		return &models.QueryResult{
			Success: false,
			Error:   intent.Error,
			Message: "Unable to understand the query. Please try a different phrasing.",
		}
	}

	cacheKey := buildCacheKey(nlQuery)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		metrics.CacheHits.WithLabelValues(string(intent.QueryType)).Inc()
		return cached
	}
	metrics.CacheMisses.WithLabelValues(string(intent.QueryType)).Inc()

	rows, err := s.executeSQL(ctx, intent.SQL)
	if err != nil {
		s.logger.WithError(err).Error("query execution failed", map[string]interface{}{
			"queryId":   queryID,
			"queryType": string(intent.QueryType),
		})
		metrics.QueriesFailed.WithLabelValues(string(intent.QueryType), "EXECUTION_ERROR").Inc()
		return &models.QueryResult{
			Success: false,
			Error:   "Database execution error",
			Message: err.Error(),
		}
	}

	result := &models.QueryResult{
		Success:   true,
		QueryType: intent.QueryType,
		Data:      rows,
		Metadata: &models.QueryMetadata{
			ResultCount: len(rows),
			Query:       translator.NormalizeSQL(intent.SQL),
			Explanation: intent.Explanation,
		},
	}

	s.cacheSet(ctx, cacheKey, result)

	metrics.QueriesProcessed.WithLabelValues(string(intent.QueryType)).Inc()
	metrics.QueryDuration.WithLabelValues(string(intent.QueryType)).Observe(time.Since(start).Seconds())

	s.logger.Info("query processed", map[string]interface{}{
		"queryId":     queryID,
		"queryType":   string(intent.QueryType),
		"resultCount": len(rows),
	})

	return result
}

// Analyze runs Process and attaches a statistical summary to successful
// results.
func (s *Service) Analyze(ctx context.Context, nlQuery string) *models.QueryResult {
	result := s.Process(ctx, nlQuery)
	if !result.Success {
		return result
	}

	result.Analysis = analyzer.Summarize(result.QueryType, result.Data)
	return result
}

func (s *Service) executeSQL(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			// Drivers hand strings back as raw bytes.
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func buildCacheKey(nlQuery string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(nlQuery))
}

func (s *Service) cacheGet(ctx context.Context, key string) *models.QueryResult {
	if s.redis == nil {
		return nil
	}

	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var result models.QueryResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil
	}
	return &result
}

func (s *Service) cacheSet(ctx context.Context, key string, result *models.QueryResult) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("failed to cache query result", map[string]interface{}{
			"cacheKey": key,
		})
	}
}
