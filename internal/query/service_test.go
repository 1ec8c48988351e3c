package query

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlquery/internal/common/logger"
	"nlquery/internal/models"
)

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestService(t *testing.T, db *sql.DB, rdb *redis.Client) *Service {
	return NewService(db, rdb, 5*time.Minute, logger.NewTestLogger(t))
}

func TestProcess_SalesReport(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM sales s(.|\n)*JOIN products p").WillReturnRows(
		sqlmock.NewRows([]string{"product_name", "quantity", "total_amount", "sale_date"}).
			AddRow("Laptop", int64(2), 2400.0, "2025-03-10").
			AddRow("Mouse", int64(5), 100.0, "2025-03-08"),
	)

	result := svc.Process(context.Background(), "Show me sales from last month")

	require.True(t, result.Success)
	assert.Equal(t, models.QueryTypeSalesReport, result.QueryType)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "Laptop", result.Data[0]["product_name"])

	require.NotNil(t, result.Metadata)
	assert.Equal(t, 2, result.Metadata.ResultCount)
	assert.Contains(t, result.Metadata.Query, "-1 month")
	assert.NotContains(t, result.Metadata.Query, "\n")
	assert.Contains(t, result.Metadata.Explanation, "sales information")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_UnrecognizedQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	result := svc.Process(context.Background(), "asdkjfh random text")

	assert.False(t, result.Success)
	assert.Equal(t, "Unrecognized query pattern", result.Error)
	assert.Equal(t, "Unable to understand the query. Please try a different phrasing.", result.Message)
	assert.Nil(t, result.Data)
	assert.Nil(t, result.Metadata)

	// No SQL reaches the database for unrecognized queries.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_ExecutionError(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM products").WillReturnError(sql.ErrConnDone)

	result := svc.Process(context.Background(), "How many laptops do we have in stock?")

	assert.False(t, result.Success)
	assert.Equal(t, "Database execution error", result.Error)
	assert.Equal(t, sql.ErrConnDone.Error(), result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_CacheHit(t *testing.T) {
	db, _ := setupMockDB(t)
	rdb := setupRedis(t)
	svc := newTestService(t, db, rdb)

	cached := &models.QueryResult{
		Success:   true,
		QueryType: models.QueryTypeInventoryCheck,
		Data: []map[string]interface{}{
			{"name": "Laptop Pro", "inventory": float64(25)},
		},
		Metadata: &models.QueryMetadata{ResultCount: 1},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), buildCacheKey("How many laptops do we have in stock?"), payload, time.Minute).Err())

	// No database expectation is registered, so a cache miss would fail.
	result := svc.Process(context.Background(), "How many laptops do we have in stock?")

	require.True(t, result.Success)
	assert.Equal(t, models.QueryTypeInventoryCheck, result.QueryType)
	assert.Equal(t, "Laptop Pro", result.Data[0]["name"])
}

func TestProcess_CachePopulatedAfterMiss(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb := setupRedis(t)
	svc := newTestService(t, db, rdb)

	mock.ExpectQuery("SELECT(.|\n)*FROM customers").WillReturnRows(
		sqlmock.NewRows([]string{"name", "email", "location", "joined_date"}).
			AddRow("Alex", "alex@example.com", "Berlin", "2025-01-01"),
	)

	first := svc.Process(context.Background(), "Show me the customers from Berlin")
	require.True(t, first.Success)

	// Second call is served from Redis without touching the database again.
	second := svc.Process(context.Background(), "Show me the customers from Berlin")
	require.True(t, second.Success)
	assert.Equal(t, first.Data, second.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_CacheKeyNormalization(t *testing.T) {
	assert.Equal(t, buildCacheKey("  Sales From Last Month "), buildCacheKey("sales from last month"))
}

func TestAnalyze_AttachesAnalysis(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	mock.ExpectQuery("SELECT(.|\n)*SUM\\(total_amount\\)").WillReturnRows(
		sqlmock.NewRows([]string{"total_revenue", "transaction_count", "items_sold"}).
			AddRow(14000.0, int64(10), int64(40)),
	)

	result := svc.Analyze(context.Background(), "What is the total revenue for last month?")

	require.True(t, result.Success)
	require.NotNil(t, result.Analysis)
	assert.Contains(t, result.Analysis.Insights, "Total revenue: $14000.00")
	assert.Contains(t, result.Analysis.Insights, "Number of transactions: 10")
	require.NotNil(t, result.Analysis.Visualization)
	assert.Equal(t, models.VisualizationNumber, result.Analysis.Visualization.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyze_EmptyResults(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM customers").WillReturnRows(
		sqlmock.NewRows([]string{"name", "email", "location", "joined_date"}),
	)

	result := svc.Analyze(context.Background(), "list the customers from nowhere")

	require.True(t, result.Success)
	require.NotNil(t, result.Analysis)
	assert.Contains(t, result.Analysis.Summary, "0")
	assert.Equal(t, []string{}, result.Analysis.Insights)
	assert.Nil(t, result.Analysis.Visualization)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyze_UnrecognizedSkipsAnalysis(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := newTestService(t, db, nil)

	result := svc.Analyze(context.Background(), "gibberish input here")

	assert.False(t, result.Success)
	assert.Nil(t, result.Analysis)
}

func TestExecuteSQL_ByteColumnsDecoded(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM products").WillReturnRows(
		sqlmock.NewRows([]string{"name", "category", "inventory", "price"}).
			AddRow([]byte("Laptop Pro"), []byte("Electronics"), int64(25), []byte("1200.50")),
	)

	result := svc.Process(context.Background(), "stock of laptops")

	require.True(t, result.Success)
	assert.Equal(t, "Laptop Pro", result.Data[0]["name"])
	assert.Equal(t, "1200.50", result.Data[0]["price"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
