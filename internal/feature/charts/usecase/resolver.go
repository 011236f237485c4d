// Package usecase はチャートリクエストの解決と取得のビジネスロジックを実装します。
package usecase

import (
	"fmt"
	"strings"

	"stock_charts/internal/feature/charts/domain"
	"stock_charts/internal/feature/charts/domain/entity"
	"stock_charts/internal/feature/charts/indicator"
	mdentity "stock_charts/internal/feature/marketdata/domain/entity"
)

const (
	// DefaultRollingWindow はrolling_mean / sma_emaの既定の窓サイズです。
	DefaultRollingWindow = 20
	// DefaultEMASpan はsma_emaの既定のEMAスパンです。
	DefaultEMASpan = 20
	// DefaultCandleTail はcandlestickチャートが保持する末尾の最大点数です。
	// 描画コストを抑えるための表示上の都合であり、Storeの系列は変更しません。
	DefaultCandleTail = 500
)

// StoreProvider は現在の読み取り専用Storeを返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StoreProvider interface {
	Current() *mdentity.Store
}

// Resolver はChartRequestをStoreに対して検証し、必要な指標を計算して
// 描画可能なChartDatasetへ解決します。
type Resolver struct {
	store      StoreProvider
	candleTail int
}

// NewResolver は新しいResolverを生成します。candleTailが0以下の場合は
// DefaultCandleTailが使われます。
func NewResolver(store StoreProvider, candleTail int) *Resolver {
	if candleTail <= 0 {
		candleTail = DefaultCandleTail
	}
	return &Resolver{store: store, candleTail: candleTail}
}

// singleSymbolTypes は銘柄を1つだけ受け付けるチャート種別です。
var singleSymbolTypes = map[entity.ChartType]struct{}{
	entity.ChartCandlestick: {},
	entity.ChartVolume:      {},
	entity.ChartSMAEMA:      {},
}

// priceBasedTypes は修正終値を入力とするチャート種別です。
var priceBasedTypes = map[entity.ChartType]struct{}{
	entity.ChartDailyReturns:   {},
	entity.ChartRollingMean:    {},
	entity.ChartBollingerBands: {},
	entity.ChartRSI:            {},
	entity.ChartMACD:           {},
	entity.ChartSMAEMA:         {},
	entity.ChartDrawdown:       {},
}

// Resolve はリクエストを検証し、ChartDatasetを組み立てます。
// 検証は順番に行われ、最初に失敗したチェックのエラーが返ります。
// 同じリクエストと同じStoreに対する結果は常に同一です。
func (r *Resolver) Resolve(req entity.ChartRequest) (*entity.ChartDataset, error) {
	store := r.store.Current()

	symbols := normalizeSymbols(req.Symbols)
	// drawdownは銘柄指定なしを「設定済み全銘柄」として扱う
	if len(symbols) == 0 && req.Type == entity.ChartDrawdown {
		symbols = store.Symbols()
	}

	// 1. 銘柄リストが空でないこと
	if len(symbols) == 0 {
		return nil, domain.ErrMissingSymbols
	}
	// 2. チャート種別が認識されること
	if _, ok := entity.ParseChartType(string(req.Type)); !ok {
		return nil, fmt.Errorf("%q: %w", req.Type, domain.ErrUnknownChartType)
	}
	// 3. 少なくとも1銘柄がStoreに存在し、空でない系列を持つこと
	valid, skipped := partitionSymbols(store, symbols)
	if len(valid) == 0 {
		return nil, &domain.SymbolNotFoundError{Invalid: skipped, Available: store.Symbols()}
	}
	// 4. 単一銘柄チャートに複数の銘柄を渡していないこと
	if _, single := singleSymbolTypes[req.Type]; single && len(symbols) > 1 {
		return nil, fmt.Errorf("%s: %w", req.Type, domain.ErrSingleSymbolOnly)
	}
	// 5. 価格系チャートは修正終値を持つ銘柄が1つ以上あること
	if _, priced := priceBasedTypes[req.Type]; priced {
		valid, skipped = filterAdjClose(store, valid, skipped)
		if len(valid) == 0 {
			return nil, domain.ErrNoAdjClose
		}
	}

	ds, err := r.compose(store, req, valid)
	if err != nil {
		return nil, err
	}
	ds.Skipped = skipped
	return ds, nil
}

// normalizeSymbols はトリム・大文字化・空要素除去・挿入順を保った重複除去を
// 行います。
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// partitionSymbols は要求銘柄をStoreに存在する有効銘柄と除外銘柄に分けます。
func partitionSymbols(store *mdentity.Store, symbols []string) (valid, skipped []string) {
	valid = make([]string, 0, len(symbols))
	skipped = []string{}
	for _, sym := range symbols {
		ts, ok := store.Get(sym)
		if !ok || ts.Empty() {
			skipped = append(skipped, sym)
			continue
		}
		valid = append(valid, sym)
	}
	return valid, skipped
}

// filterAdjClose は修正終値が全欠損の銘柄を除外側へ移します。
func filterAdjClose(store *mdentity.Store, valid, skipped []string) ([]string, []string) {
	kept := make([]string, 0, len(valid))
	for _, sym := range valid {
		ts, _ := store.Get(sym)
		if !ts.HasAdjClose() {
			skipped = append(skipped, sym)
			continue
		}
		kept = append(kept, sym)
	}
	return kept, skipped
}

// adjCloseSeries は修正終値の系列を欠損行を落として返します。
func adjCloseSeries(ts mdentity.TimeSeries) entity.Series {
	out := make(entity.Series, 0, ts.Len())
	for _, b := range ts.Bars {
		if mdentity.IsMissing(b.AdjClose) {
			continue
		}
		out = append(out, entity.Point{Time: b.Time, Value: b.AdjClose})
	}
	return out
}

// compose はチャート種別ごとに指標を計算し、ラベル付き系列を組み立てます。
func (r *Resolver) compose(store *mdentity.Store, req entity.ChartRequest, valid []string) (*entity.ChartDataset, error) {
	switch req.Type {
	case entity.ChartDailyReturns:
		return composePerSymbol(store, valid, entity.ChartDailyReturns,
			"Daily Returns", "Daily Return", 0,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				return []entity.NamedSeries{
					{Label: sym, Style: entity.StyleLine, Points: indicator.DailyReturns(prices)},
				}
			})

	case entity.ChartRollingMean:
		window := orDefault(req.Window, DefaultRollingWindow)
		return composePerSymbol(store, valid, entity.ChartRollingMean,
			fmt.Sprintf("%d-Day Simple Moving Average", window), "Price", window,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				return []entity.NamedSeries{
					{Label: sym, Style: entity.StyleLine, Points: indicator.SMA(prices, window)},
				}
			})

	case entity.ChartBollingerBands:
		window := orDefault(req.Window, indicator.DefaultBollingerWindow)
		return composePerSymbol(store, valid, entity.ChartBollingerBands,
			fmt.Sprintf("Bollinger Bands (%d-day, 2σ)", window), "Price", window,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				bands := indicator.BollingerBands(prices, window)
				return []entity.NamedSeries{
					{Label: sym + " Price", Style: entity.StyleLine, Points: prices},
					{Label: sym + " SMA", Style: entity.StyleDashed, Points: bands.Mid},
					{Label: sym + " Upper", Style: entity.StyleBand, Points: bands.Upper},
					{Label: sym + " Lower", Style: entity.StyleBand, Points: bands.Lower},
				}
			})

	case entity.ChartRSI:
		window := orDefault(req.Window, indicator.DefaultRSIWindow)
		return composePerSymbol(store, valid, entity.ChartRSI,
			"Relative Strength Index (RSI)", "RSI", window,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				return []entity.NamedSeries{
					{Label: sym, Style: entity.StyleLine, Points: indicator.RSI(prices, window)},
				}
			})

	case entity.ChartMACD:
		short := orDefault(req.MACDShort, indicator.DefaultMACDShort)
		long := orDefault(req.MACDLong, indicator.DefaultMACDLong)
		signal := orDefault(req.MACDSignal, indicator.DefaultMACDSignal)
		return composePerSymbol(store, valid, entity.ChartMACD,
			fmt.Sprintf("MACD (%d, %d, %d)", short, long, signal), "MACD", 0,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				lines := indicator.MACD(prices, short, long, signal)
				return []entity.NamedSeries{
					{Label: sym + " MACD", Style: entity.StyleLine, Points: lines.MACD},
					{Label: sym + " Signal", Style: entity.StyleDashed, Points: lines.Signal},
				}
			})

	case entity.ChartDrawdown:
		return composePerSymbol(store, valid, entity.ChartDrawdown,
			"Drawdown Over Time", "Drawdown", 0,
			func(sym string, prices entity.Series) []entity.NamedSeries {
				return []entity.NamedSeries{
					{Label: sym + " Drawdown", Style: entity.StyleLine, Points: indicator.Drawdown(prices)},
				}
			})

	case entity.ChartSMAEMA:
		return composeSMAEMA(store, req, valid[0])

	case entity.ChartCandlestick:
		return composeCandlestick(store, valid[0], orDefault(req.Tail, r.candleTail))

	case entity.ChartVolume:
		return composeVolume(store, valid[0])
	}
	// 種別は検証済みなのでここには来ない
	return nil, fmt.Errorf("%q: %w", req.Type, domain.ErrUnknownChartType)
}

// composePerSymbol は有効銘柄ごとにbuildを適用して系列を集めます。
// すべての系列が全欠損になった場合はInsufficientDataErrorを返します。
func composePerSymbol(store *mdentity.Store, valid []string, typ entity.ChartType,
	title, ylabel string, window int,
	build func(sym string, prices entity.Series) []entity.NamedSeries) (*entity.ChartDataset, error) {

	ds := &entity.ChartDataset{
		Type:   typ,
		Title:  title,
		XLabel: "Date",
		YLabel: ylabel,
	}
	anyDefined := false
	for _, sym := range valid {
		ts, _ := store.Get(sym)
		for _, ns := range build(sym, adjCloseSeries(ts)) {
			if !ns.Points.AllMissing() {
				anyDefined = true
			}
			ds.Series = append(ds.Series, ns)
		}
	}
	if !anyDefined {
		return nil, &domain.InsufficientDataError{Window: window}
	}
	return ds, nil
}

// composeSMAEMA は修正終値にSMAとEMAを重ねた単一銘柄チャートを組み立てます。
func composeSMAEMA(store *mdentity.Store, req entity.ChartRequest, sym string) (*entity.ChartDataset, error) {
	smaWindow := orDefault(req.SMAWindow, DefaultRollingWindow)
	emaSpan := orDefault(req.EMASpan, DefaultEMASpan)

	ts, _ := store.Get(sym)
	prices := adjCloseSeries(ts)
	sma := indicator.SMA(prices, smaWindow)
	ema := indicator.EMA(prices, emaSpan)

	// 窓が履歴長を超えて片方の系列が全滅した場合は空チャートにしない
	if sma.AllMissing() || ema.AllMissing() {
		return nil, &domain.InsufficientDataError{Window: smaWindow}
	}

	return &entity.ChartDataset{
		Type:   entity.ChartSMAEMA,
		Title:  fmt.Sprintf("%s SMA and EMA", sym),
		XLabel: "Date",
		YLabel: "Price",
		Series: []entity.NamedSeries{
			{Label: "Adjusted Close", Style: entity.StyleLine, Points: prices},
			{Label: fmt.Sprintf("%d-Day SMA", smaWindow), Style: entity.StyleDashed, Points: sma},
			{Label: fmt.Sprintf("%d-Day EMA", emaSpan), Style: entity.StyleDashed, Points: ema},
		},
	}, nil
}

// composeCandlestick はOHLCが揃った行だけを集め、末尾を切り詰めます。
// 切り詰めは描画コストを抑える表示上の決定で、Storeの系列は変更しません。
func composeCandlestick(store *mdentity.Store, sym string, tail int) (*entity.ChartDataset, error) {
	ts, _ := store.Get(sym)

	candles := make([]mdentity.Bar, 0, ts.Len())
	for _, b := range ts.Bars {
		if b.HasOHLC() {
			candles = append(candles, b)
		}
	}
	if len(candles) == 0 {
		return nil, &domain.InsufficientDataError{}
	}
	if len(candles) > tail {
		candles = candles[len(candles)-tail:]
	}

	return &entity.ChartDataset{
		Type:    entity.ChartCandlestick,
		Title:   fmt.Sprintf("%s Candlestick Chart (Last %d days)", sym, len(candles)),
		XLabel:  "Date",
		YLabel:  "Price",
		Candles: candles,
	}, nil
}

// composeVolume は出来高の系列を組み立てます。
func composeVolume(store *mdentity.Store, sym string) (*entity.ChartDataset, error) {
	ts, _ := store.Get(sym)

	points := make(entity.Series, 0, ts.Len())
	for _, b := range ts.Bars {
		if mdentity.IsMissing(b.Volume) {
			continue
		}
		points = append(points, entity.Point{Time: b.Time, Value: b.Volume})
	}
	if len(points) == 0 {
		return nil, &domain.InsufficientDataError{}
	}

	return &entity.ChartDataset{
		Type:   entity.ChartVolume,
		Title:  fmt.Sprintf("%s Trading Volume", sym),
		XLabel: "Date",
		YLabel: "Volume",
		Series: []entity.NamedSeries{
			{Label: sym + " Volume", Style: entity.StyleArea, Points: points},
		},
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
