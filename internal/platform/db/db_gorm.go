// Package db はGORMデータベース接続の初期化を提供します。
package db

import (
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_charts/internal/feature/marketdata/adapters/gormsource"
)

// DefaultSQLitePath はDB_PATH未指定時のSQLiteファイルパスです。
const DefaultSQLitePath = "stock_charts.db"

// Config はデータベース接続設定です。
type Config struct {
	// DatabaseURL が設定されている場合はPostgreSQLに接続します。
	DatabaseURL string
	// SQLitePath はPostgreSQL未使用時のSQLiteファイルパスです。
	SQLitePath string
}

// ConfigFromEnv は環境変数から接続設定を読み込みます。
func ConfigFromEnv() Config {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = DefaultSQLitePath
	}
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  path,
	}
}

// Dialector は設定に応じたGORMダイアレクタを返します。
func Dialector(cfg Config) gorm.Dialector {
	if cfg.DatabaseURL != "" {
		return gpostgres.Open(cfg.DatabaseURL)
	}
	return gsqlite.Open(cfg.SQLitePath)
}

// OpenDB はデータベースへ接続し、必要ならマイグレーションを実行します。
// 接続は60秒間リトライし、失敗し続けた場合はプロセスを終了します。
func OpenDB(cfg Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(Dialector(cfg), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(&gormsource.BarModel{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
