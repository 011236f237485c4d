package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_charts/internal/app/di"
	"stock_charts/internal/app/router"
	adminhandler "stock_charts/internal/feature/admin/transport/handler"
	adminusecase "stock_charts/internal/feature/admin/usecase"
	charthandler "stock_charts/internal/feature/charts/transport/handler"
	chartusecase "stock_charts/internal/feature/charts/usecase"
	mdhandler "stock_charts/internal/feature/marketdata/transport/handler"
	mdusecase "stock_charts/internal/feature/marketdata/usecase"
	"stock_charts/internal/platform/cache"
	infradb "stock_charts/internal/platform/db"
	jwtmw "stock_charts/internal/platform/jwt"
	infraredis "stock_charts/internal/platform/redis"
	"stock_charts/internal/platform/render"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg := mdusecase.LoadConfig()

	// DBはDATA_BACKEND=dbのときだけ開く
	var db *gorm.DB
	if cfg.Backend == mdusecase.BackendDB {
		db = infradb.OpenDB(infradb.ConfigFromEnv())
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// データソースと起動時ロード
	source := di.NewSeriesSource(cfg, db)
	loadUC := mdusecase.NewLoadUsecase(source)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	store, report := loadUC.LoadAll(ctx, cfg.Symbols)
	cancel()
	slog.Info("startup load finished", "loaded", len(report.Loaded), "failed", len(report.Failed))
	if store.Len() == 0 {
		log.Fatal("no symbols could be loaded; check DATA_DIR and SYMBOLS")
	}
	holder := mdusecase.NewStoreHolder(store)

	// Usecase
	seriesUC := mdusecase.NewSeriesUsecase(holder)
	resolver := chartusecase.NewResolver(holder, 0)
	chartSvc := chartusecase.NewChartService(resolver, render.NewPNGRenderer())

	// Redisキャッシュでラップ。TTLは保存のたびに評価され、
	// 深夜0時(UTC)の日次データ更新境界でエントリが失効する
	charts := di.NewChartProvider(rdb, chartSvc, cache.TimeUntilNextMidnightUTC)
	var invalidator adminusecase.CacheInvalidator
	if cached, ok := charts.(*cache.CachingChartService); ok {
		invalidator = cached
	}

	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), time.Hour)
	adminUC := adminusecase.NewAdminUsecase(jwtGen, loadUC, holder, invalidator, cfg.Symbols)

	// Handler
	seriesH := mdhandler.NewSeriesHandler(seriesUC)
	chartsH := charthandler.NewChartHandler(charts)
	adminH := adminhandler.NewAdminHandler(adminUC)

	// ルータ生成
	r := router.NewRouter(seriesH, chartsH, adminH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
