package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_charts/internal/feature/charts/domain"
	"stock_charts/internal/feature/charts/domain/entity"
	mdentity "stock_charts/internal/feature/marketdata/domain/entity"
)

// fixedStore は固定のStoreを返すテスト用のStoreProviderです。
type fixedStore struct {
	store *mdentity.Store
}

func (f *fixedStore) Current() *mdentity.Store { return f.store }

// day はテスト用の日付を生成します。
func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// seriesOf は修正終値だけを持つTimeSeriesを生成します。
func seriesOf(symbol string, prices ...float64) mdentity.TimeSeries {
	bars := make([]mdentity.Bar, len(prices))
	for i, p := range prices {
		bars[i] = mdentity.Bar{
			Time:     day(i),
			Open:     p,
			High:     p + 1,
			Low:      p - 1,
			Close:    p,
			AdjClose: p,
			Volume:   1000,
		}
	}
	return mdentity.TimeSeries{Symbol: symbol, Bars: bars}
}

func newTestResolver(list ...mdentity.TimeSeries) *Resolver {
	return NewResolver(&fixedStore{store: mdentity.NewStore(list)}, 0)
}

func TestResolve_EmptySymbols(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102))

	_, err := r.Resolve(entity.ChartRequest{Symbols: nil, Type: entity.ChartRSI})
	assert.ErrorIs(t, err, domain.ErrMissingSymbols)

	// 空白と空要素だけのリストも空扱い
	_, err = r.Resolve(entity.ChartRequest{Symbols: []string{" ", ""}, Type: entity.ChartRSI})
	assert.ErrorIs(t, err, domain.ErrMissingSymbols)
}

func TestResolve_UnknownChartType(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102))

	_, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: "pie"})
	assert.ErrorIs(t, err, domain.ErrUnknownChartType)
}

func TestResolve_AllSymbolsUnknown(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102))

	_, err := r.Resolve(entity.ChartRequest{
		Symbols: []string{"ZZZZ", "QQQQ"},
		Type:    entity.ChartDailyReturns,
	})

	var nf *domain.SymbolNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"ZZZZ", "QQQQ"}, nf.Invalid)
	assert.Equal(t, []string{"AAPL"}, nf.Available)
}

func TestResolve_PartialSuccessReportsSkipped(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102, 103))

	ds, err := r.Resolve(entity.ChartRequest{
		Symbols: []string{"AAPL", "ZZZZ"},
		Type:    entity.ChartDailyReturns,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ZZZZ"}, ds.Skipped)
	require.Len(t, ds.Series, 1)
	assert.Equal(t, "AAPL", ds.Series[0].Label)
}

func TestResolve_SymbolNormalization(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102))

	// 小文字・空白・重複は正規化され、結果は1銘柄分になる
	ds, err := r.Resolve(entity.ChartRequest{
		Symbols: []string{" aapl ", "AAPL", "aapl"},
		Type:    entity.ChartDailyReturns,
	})

	require.NoError(t, err)
	assert.Empty(t, ds.Skipped)
	assert.Len(t, ds.Series, 1)
}

func TestResolve_SingleSymbolOnly(t *testing.T) {
	r := newTestResolver(
		seriesOf("AAPL", 100, 101, 102),
		seriesOf("MSFT", 200, 201, 202),
	)

	for _, typ := range []entity.ChartType{entity.ChartCandlestick, entity.ChartVolume, entity.ChartSMAEMA} {
		_, err := r.Resolve(entity.ChartRequest{
			Symbols: []string{"AAPL", "MSFT"},
			Type:    typ,
		})
		assert.ErrorIs(t, err, domain.ErrSingleSymbolOnly, "type=%s", typ)
	}
}

func TestResolve_WindowLargerThanHistory(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102, 103, 104))

	_, err := r.Resolve(entity.ChartRequest{
		Symbols: []string{"AAPL"},
		Type:    entity.ChartRollingMean,
		Window:  100000,
	})

	var ins *domain.InsufficientDataError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 100000, ins.Window)
}

func TestResolve_NoAdjClose(t *testing.T) {
	nan := mdentity.Missing()
	bars := []mdentity.Bar{
		{Time: day(0), Open: 10, High: 11, Low: 9, Close: 10, AdjClose: nan, Volume: 500},
		{Time: day(1), Open: 10, High: 12, Low: 9, Close: 11, AdjClose: nan, Volume: 600},
	}
	r := newTestResolver(mdentity.TimeSeries{Symbol: "AAPL", Bars: bars})

	// 価格系チャートは修正終値が全欠損なら解決できない
	_, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartRSI})
	assert.ErrorIs(t, err, domain.ErrNoAdjClose)

	// 出来高チャートは修正終値に依存しないので成功する
	ds, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartVolume})
	require.NoError(t, err)
	require.Len(t, ds.Series, 1)
	assert.Equal(t, 2, ds.Series[0].Points.Defined())
}

func TestResolve_DrawdownDefaultsToAllSymbols(t *testing.T) {
	r := newTestResolver(
		seriesOf("AAPL", 100, 110, 105),
		seriesOf("MSFT", 200, 190, 210),
	)

	ds, err := r.Resolve(entity.ChartRequest{Symbols: nil, Type: entity.ChartDrawdown})

	require.NoError(t, err)
	assert.Len(t, ds.Series, 2)
	assert.Equal(t, "AAPL Drawdown", ds.Series[0].Label)
	assert.Equal(t, "MSFT Drawdown", ds.Series[1].Label)
}

func TestResolve_BollingerSeriesLayout(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	r := newTestResolver(seriesOf("AAPL", prices...))

	ds, err := r.Resolve(entity.ChartRequest{
		Symbols: []string{"AAPL"},
		Type:    entity.ChartBollingerBands,
	})

	require.NoError(t, err)
	require.Len(t, ds.Series, 4)
	assert.Equal(t, "AAPL Price", ds.Series[0].Label)
	assert.Equal(t, entity.StyleDashed, ds.Series[1].Style)
	assert.Equal(t, entity.StyleBand, ds.Series[2].Style)
	assert.Equal(t, entity.StyleBand, ds.Series[3].Style)
}

func TestResolve_MACDSeriesLayout(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i%7)
	}
	r := newTestResolver(seriesOf("AAPL", prices...))

	ds, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartMACD})

	require.NoError(t, err)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, "AAPL MACD", ds.Series[0].Label)
	assert.Equal(t, "AAPL Signal", ds.Series[1].Label)
	// MACDは先頭から定義される
	assert.Equal(t, len(prices), ds.Series[0].Points.Defined())
}

func TestResolve_SMAEMA(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	r := newTestResolver(seriesOf("AAPL", prices...))

	ds, err := r.Resolve(entity.ChartRequest{
		Symbols:   []string{"AAPL"},
		Type:      entity.ChartSMAEMA,
		SMAWindow: 5,
		EMASpan:   10,
	})

	require.NoError(t, err)
	require.Len(t, ds.Series, 3)
	assert.Equal(t, "Adjusted Close", ds.Series[0].Label)
	assert.Equal(t, "5-Day SMA", ds.Series[1].Label)
	assert.Equal(t, "10-Day EMA", ds.Series[2].Label)
}

func TestResolve_CandlestickTail(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	r := NewResolver(&fixedStore{store: mdentity.NewStore(
		[]mdentity.TimeSeries{seriesOf("AAPL", prices...)},
	)}, 10)

	ds, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartCandlestick})

	require.NoError(t, err)
	require.Len(t, ds.Candles, 10)
	// 末尾が残る（先頭切り捨て）
	assert.Equal(t, day(20), ds.Candles[0].Time)
	assert.Equal(t, day(29), ds.Candles[9].Time)

	// リクエストのTailは生成時の既定値を上書きする
	ds, err = r.Resolve(entity.ChartRequest{
		Symbols: []string{"AAPL"},
		Type:    entity.ChartCandlestick,
		Tail:    5,
	})
	require.NoError(t, err)
	assert.Len(t, ds.Candles, 5)
}

func TestResolve_CandlestickSkipsIncompleteRows(t *testing.T) {
	nan := mdentity.Missing()
	bars := []mdentity.Bar{
		{Time: day(0), Open: 10, High: 11, Low: 9, Close: 10, AdjClose: 10, Volume: 500},
		{Time: day(1), Open: nan, High: 12, Low: 9, Close: 11, AdjClose: 11, Volume: 600},
		{Time: day(2), Open: 11, High: 13, Low: 10, Close: 12, AdjClose: 12, Volume: 700},
	}
	r := newTestResolver(mdentity.TimeSeries{Symbol: "AAPL", Bars: bars})

	ds, err := r.Resolve(entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartCandlestick})

	require.NoError(t, err)
	require.Len(t, ds.Candles, 2)
	assert.Equal(t, day(0), ds.Candles[0].Time)
	assert.Equal(t, day(2), ds.Candles[1].Time)
}

func TestResolve_Idempotent(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 99, 102, 104))
	req := entity.ChartRequest{Symbols: []string{"AAPL"}, Type: entity.ChartDailyReturns}

	first, err := r.Resolve(req)
	require.NoError(t, err)
	second, err := r.Resolve(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_ValidationOrder(t *testing.T) {
	r := newTestResolver(seriesOf("AAPL", 100, 101, 102))

	// 空リストのチェックは種別チェックより先
	_, err := r.Resolve(entity.ChartRequest{Symbols: nil, Type: "pie"})
	assert.ErrorIs(t, err, domain.ErrMissingSymbols)

	// 種別チェックは銘柄存在チェックより先
	_, err = r.Resolve(entity.ChartRequest{Symbols: []string{"ZZZZ"}, Type: "pie"})
	assert.ErrorIs(t, err, domain.ErrUnknownChartType)

	// 銘柄存在チェックは単一銘柄チェックより先
	_, err = r.Resolve(entity.ChartRequest{
		Symbols: []string{"ZZZZ", "QQQQ"},
		Type:    entity.ChartCandlestick,
	})
	var nf *domain.SymbolNotFoundError
	assert.True(t, errors.As(err, &nf))
}
