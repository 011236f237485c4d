// Package di はアプリケーションコンポーネント生成のファクトリを提供します。
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_charts/internal/feature/charts/usecase"
	"stock_charts/internal/feature/marketdata/adapters/csvsource"
	"stock_charts/internal/feature/marketdata/adapters/gormsource"
	mdusecase "stock_charts/internal/feature/marketdata/usecase"
	"stock_charts/internal/platform/cache"
)

// NewSeriesSource は設定に応じたデータソース実装を生成します。
// DATA_BACKEND=dbの場合はデータベース、それ以外はCSVディレクトリを読みます。
func NewSeriesSource(cfg mdusecase.Config, db *gorm.DB) mdusecase.SeriesSource {
	if cfg.Backend == mdusecase.BackendDB {
		return gormsource.NewBarRepository(db)
	}
	return csvsource.NewSource(cfg.DataDir)
}

// NewChartProvider はChartServiceを生成し、Redisが利用可能なら
// キャッシュデコレータで包んで返します。ttlは保存のたびに評価されます。
func NewChartProvider(rdb *redis.Client, svc *usecase.ChartService, ttl func() time.Duration) cache.ChartProvider {
	if rdb == nil {
		return svc
	}
	return cache.NewCachingChartService(rdb, ttl, svc, "charts")
}
