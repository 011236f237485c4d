package gormsource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&BarModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func testSeries(symbol string) entity.TimeSeries {
	base := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	return entity.TimeSeries{
		Symbol: symbol,
		Bars: []entity.Bar{
			{Time: base, Open: 100, High: 110, Low: 90, Close: 105, AdjClose: 104, Volume: 1000},
			{Time: base.AddDate(0, 0, 1), Open: 105, High: 115, Low: 95, Close: 110, AdjClose: entity.Missing(), Volume: 1100},
		},
	}
}

func TestBarGorm_UpsertAndLoad(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBarRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, testSeries("AAPL")))

	got, err := repo.Load(ctx, "AAPL")
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 104.0, got.Bars[0].AdjClose)
	// NaN欠損はNULLで往復する
	assert.True(t, entity.IsMissing(got.Bars[1].AdjClose))
	assert.True(t, got.Bars[0].Time.Before(got.Bars[1].Time))
}

func TestBarGorm_UpsertBatch_Overwrites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBarRepository(db)
	ctx := context.Background()

	ts := testSeries("MSFT")
	require.NoError(t, repo.UpsertBatch(ctx, ts))

	// 同じ(symbol, time)で値を変えて再Upsert
	ts.Bars[0].Close = 999
	require.NoError(t, repo.UpsertBatch(ctx, ts))

	got, err := repo.Load(ctx, "MSFT")
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 999.0, got.Bars[0].Close)
}

func TestBarGorm_Load_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBarRepository(db)

	_, err := repo.Load(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}
