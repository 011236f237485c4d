// Package usecase はマーケットデータのロードと参照のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"stock_charts/internal/feature/marketdata/domain/entity"
)

// SeriesSource は1銘柄分の生データソースを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesSource interface {
	// Load は銘柄の生データを読み込み、検証済みのTimeSeriesを返します。
	Load(ctx context.Context, symbol string) (entity.TimeSeries, error)
}

// LoadFailure は1銘柄分のロード失敗を表します。
type LoadFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// LoadReport は一括ロードの構造化された結果です。
// 部分的な成功が通常の状態であり、失敗した銘柄はStoreに含まれないだけです。
type LoadReport struct {
	Loaded []string      `json:"loaded"`
	Failed []LoadFailure `json:"failed"`
}

// LoadUsecase は設定された銘柄ユニバースをベストエフォートで読み込みます。
type LoadUsecase struct {
	source SeriesSource
}

// NewLoadUsecase は新しいLoadUsecaseを生成します。
func NewLoadUsecase(source SeriesSource) *LoadUsecase {
	return &LoadUsecase{source: source}
}

// LoadAll は全銘柄を読み込み、新しいStoreとロード結果を返します。
// 1銘柄の失敗は他の銘柄のロードを妨げません。
func (u *LoadUsecase) LoadAll(ctx context.Context, symbols []string) (*entity.Store, LoadReport) {
	report := LoadReport{Loaded: []string{}, Failed: []LoadFailure{}}
	list := make([]entity.TimeSeries, 0, len(symbols))

	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		ts, err := u.source.Load(ctx, sym)
		if err != nil {
			// 失敗は銘柄単位で隔離し、レポートに記録して続行する
			slog.Error("failed to load series", "symbol", sym, "error", err)
			report.Failed = append(report.Failed, LoadFailure{Symbol: sym, Reason: err.Error()})
			continue
		}
		list = append(list, ts)
		report.Loaded = append(report.Loaded, sym)
		slog.Info("series loaded", "symbol", sym, "rows", ts.Len())
	}

	return entity.NewStore(list), report
}
