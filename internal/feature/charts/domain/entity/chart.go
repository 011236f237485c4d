// Package entity はチャートフィーチャーのドメインエンティティを定義します。
package entity

import (
	"math"
	"time"

	mdentity "stock_charts/internal/feature/marketdata/domain/entity"
)

// ChartType は要求可能なチャート種別です。
type ChartType string

const (
	ChartDailyReturns   ChartType = "daily_returns"
	ChartRollingMean    ChartType = "rolling_mean"
	ChartBollingerBands ChartType = "bollinger_bands"
	ChartRSI            ChartType = "rsi"
	ChartMACD           ChartType = "macd"
	ChartCandlestick    ChartType = "candlestick"
	ChartVolume         ChartType = "volume"
	ChartDrawdown       ChartType = "drawdown"
	ChartSMAEMA         ChartType = "sma_ema"
)

// chartTypes は認識される全チャート種別です。
var chartTypes = map[ChartType]struct{}{
	ChartDailyReturns:   {},
	ChartRollingMean:    {},
	ChartBollingerBands: {},
	ChartRSI:            {},
	ChartMACD:           {},
	ChartCandlestick:    {},
	ChartVolume:         {},
	ChartDrawdown:       {},
	ChartSMAEMA:         {},
}

// ParseChartType は文字列をChartTypeへ変換します。未知の値はfalseを返します。
func ParseChartType(s string) (ChartType, bool) {
	t := ChartType(s)
	_, ok := chartTypes[t]
	return t, ok
}

// ChartRequest は1リクエスト分のチャート指定です。
// Symbolsはユーザー指定順を保った重複なしのリストです。
// 数値パラメータは0のとき種別ごとのデフォルトが適用されます。
type ChartRequest struct {
	Symbols []string
	Type    ChartType

	Window     int // rolling_mean / bollinger_bands / rsi の窓
	SMAWindow  int // sma_ema のSMA窓
	EMASpan    int // sma_ema のEMAスパン
	MACDShort  int
	MACDLong   int
	MACDSignal int
	Tail       int // candlestick の末尾切り詰め上限
}

// Point は派生系列の1点です。ValueはNaNで欠損を表します。
type Point struct {
	Time  time.Time
	Value float64
}

// Series は入力TimeSeriesのタイムスタンプに揃った派生系列です。
// ウォームアップ期間の先頭はNaNになります（値をでっち上げない）。
type Series []Point

// Defined は欠損でない点の数を返します。
func (s Series) Defined() int {
	n := 0
	for _, p := range s {
		if !math.IsNaN(p.Value) {
			n++
		}
	}
	return n
}

// AllMissing は定義された点が1つもないかを返します。空の系列もtrueです。
func (s Series) AllMissing() bool { return s.Defined() == 0 }

// SeriesStyle は描画バックエンドへのスタイルヒントです。
type SeriesStyle string

const (
	StyleLine   SeriesStyle = "line"   // 実線
	StyleDashed SeriesStyle = "dashed" // 破線（シグナル線・SMAオーバーレイ）
	StyleBand   SeriesStyle = "band"   // バンド境界（ボリンジャー上下限）
	StyleArea   SeriesStyle = "area"   // 塗りつぶし（出来高）
)

// NamedSeries は表示ラベル付きの系列です。
type NamedSeries struct {
	Label  string
	Style  SeriesStyle
	Points Series
}

// ChartDataset はResolverの出力で、描画バックエンドが不透明に消費する
// チャート1枚分のデータ一式です。
type ChartDataset struct {
	Type   ChartType
	Title  string
	XLabel string
	YLabel string

	Series []NamedSeries

	// Candles はcandlestickチャートのみ使用します。OHLCが揃った行だけを
	// 含み、末尾切り詰め済みです。
	Candles []mdentity.Bar

	// Skipped はリクエストに含まれていたが無効で計算から除外された銘柄です。
	// 部分的な成功を呼び出し側へ必ず伝えます。
	Skipped []string
}
