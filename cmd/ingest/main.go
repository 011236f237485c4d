// CSVディレクトリの時系列をリレーショナルDBへ取り込むバッチです。
// 取り込み後はサーバーをDATA_BACKEND=dbで起動できます。
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"stock_charts/internal/feature/marketdata/adapters/csvsource"
	"stock_charts/internal/feature/marketdata/adapters/gormsource"
	mdusecase "stock_charts/internal/feature/marketdata/usecase"
	infradb "stock_charts/internal/platform/db"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg := mdusecase.LoadConfig()

	db := infradb.OpenDB(infradb.ConfigFromEnv())
	if err := db.AutoMigrate(&gormsource.BarModel{}); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	source := csvsource.NewSource(cfg.DataDir)
	repo := gormsource.NewBarRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var ok, failed int
	for _, symbol := range cfg.Symbols {
		ts, err := source.Load(ctx, symbol)
		if err != nil {
			log.Printf("[WARN] skip %s: %v", symbol, err)
			failed++
			continue
		}
		if err := repo.UpsertBatch(ctx, ts); err != nil {
			log.Printf("[WARN] upsert %s failed: %v", symbol, err)
			failed++
			continue
		}
		log.Printf("ingested %s (%d rows)", symbol, ts.Len())
		ok++
	}

	if ok == 0 {
		log.Fatal("no symbols ingested")
	}
	log.Printf("ingest ok: %d succeeded, %d failed", ok, failed)
}
