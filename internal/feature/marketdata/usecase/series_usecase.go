package usecase

import (
	"fmt"
	"strings"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
)

// StoreProvider は現在の読み取り専用Storeを返します。
type StoreProvider interface {
	Current() *entity.Store
}

// SymbolSummary はヘルスチェック用の銘柄別サマリです。
type SymbolSummary struct {
	Symbol    string `json:"symbol"`
	Rows      int    `json:"rows"`
	DateRange string `json:"date_range"`
}

// SeriesUsecase はロード済み時系列の参照ユースケースです。
type SeriesUsecase struct {
	store StoreProvider
}

// NewSeriesUsecase は新しいSeriesUsecaseを生成します。
func NewSeriesUsecase(store StoreProvider) *SeriesUsecase {
	return &SeriesUsecase{store: store}
}

// GetSeries は銘柄のTimeSeriesを返します。
// 銘柄コードは大文字に正規化して照合します。
func (u *SeriesUsecase) GetSeries(symbol string) (entity.TimeSeries, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	ts, ok := u.store.Current().Get(sym)
	if !ok {
		return entity.TimeSeries{}, fmt.Errorf("%s: %w", sym, domain.ErrSeriesNotFound)
	}
	return ts, nil
}

// ListSymbols は利用可能な銘柄コードの一覧を返します。
func (u *SeriesUsecase) ListSymbols() []string {
	return u.store.Current().Symbols()
}

// Summaries は銘柄ごとの行数と日付範囲のサマリを返します。
func (u *SeriesUsecase) Summaries() []SymbolSummary {
	store := u.store.Current()
	out := make([]SymbolSummary, 0, store.Len())
	for _, sym := range store.Symbols() {
		ts, ok := store.Get(sym)
		if !ok || ts.Empty() {
			continue
		}
		first := ts.Bars[0].Time.Format("2006-01-02")
		last := ts.Bars[ts.Len()-1].Time.Format("2006-01-02")
		out = append(out, SymbolSummary{
			Symbol:    sym,
			Rows:      ts.Len(),
			DateRange: fmt.Sprintf("%s to %s", first, last),
		})
	}
	return out
}
