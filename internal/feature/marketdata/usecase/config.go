package usecase

import (
	"os"
	"strings"
)

// DefaultSymbols は既定の銘柄ユニバースです。SYMBOLS環境変数で上書きできます。
var DefaultSymbols = []string{
	"AAPL", "MSFT", "GOOG", "AMZN", "TSLA", "SPY", "NVDA", "META", "NFLX", "AMD",
}

// DefaultDataDir は銘柄別CSVファイルを置く既定のディレクトリです。
const DefaultDataDir = "Financial Data"

// データバックエンドの識別子。
const (
	BackendCSV = "csv"
	BackendDB  = "db"
)

// Config はマーケットデータのロード設定を保持します。
type Config struct {
	DataDir string   // CSVファイルのディレクトリ
	Symbols []string // ロード対象の銘柄ユニバース
	Backend string   // BackendCSV（既定）またはBackendDB
}

// LoadConfig は環境変数からロード設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		DataDir: os.Getenv("DATA_DIR"),
		Symbols: DefaultSymbols,
		Backend: os.Getenv("DATA_BACKEND"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendCSV
	}
	if env := os.Getenv("SYMBOLS"); env != "" {
		var syms []string
		for _, s := range strings.Split(env, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				syms = append(syms, s)
			}
		}
		if len(syms) > 0 {
			cfg.Symbols = syms
		}
	}
	return cfg
}
