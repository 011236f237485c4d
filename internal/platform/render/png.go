// Package render はChartDatasetをPNG画像へ描画するバックエンドを実装します。
// 折れ線系チャートはgo-chart、ローソク足はggで描画します。
package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stock_charts/internal/feature/charts/domain/entity"
)

const (
	chartWidth  = 1200
	chartHeight = 600
)

// PNGRenderer はusecase.Rendererの実装です。
type PNGRenderer struct{}

// NewPNGRenderer はPNGRendererの新しいインスタンスを生成します。
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// Render はデータセットをPNGのバイト列へ描画します。
func (r *PNGRenderer) Render(ctx context.Context, ds *entity.ChartDataset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds.Type == entity.ChartCandlestick {
		return renderCandlestick(ds)
	}
	return renderLines(ds)
}

// renderLines は折れ線・バンド・エリア系のチャートを描画します。
func renderLines(ds *entity.ChartDataset) ([]byte, error) {
	series := make([]chart.Series, 0, len(ds.Series)+2)
	var span []time.Time
	for i, ns := range ds.Series {
		xs, ys := splitPoints(ns.Points)
		if len(xs) == 0 {
			continue
		}
		if len(xs) > len(span) {
			span = xs
		}
		series = append(series, chart.TimeSeries{
			Name:    ns.Label,
			XValues: xs,
			YValues: ys,
			Style:   styleFor(ns.Style, chart.GetDefaultColor(i)),
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no drawable series in dataset %q", ds.Title)
	}

	yaxis := chart.YAxis{Name: ds.YLabel}
	if ds.Type == entity.ChartRSI {
		// RSIは定義域が固定なので軸も0-100に固定し、買われすぎ・売られすぎの
		// 参照線を重ねる
		yaxis.Range = &chart.ContinuousRange{Min: 0, Max: 100}
		series = append(series,
			referenceLine("Overbought (70)", span, 70),
			referenceLine("Oversold (30)", span, 30),
		)
	}

	graph := chart.Chart{
		Title:  ds.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: ds.XLabel},
		YAxis:  yaxis,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", ds.Type, err)
	}
	return buf.Bytes(), nil
}

// splitPoints は欠損点を落としてX/Y軸の値に分解します。
func splitPoints(points entity.Series) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		xs = append(xs, p.Time)
		ys = append(ys, p.Value)
	}
	return xs, ys
}

// styleFor はスタイルヒントをgo-chartの描画スタイルへ変換します。
func styleFor(style entity.SeriesStyle, color drawing.Color) chart.Style {
	switch style {
	case entity.StyleDashed:
		return chart.Style{StrokeColor: color, StrokeWidth: 1.5, StrokeDashArray: []float64{5, 5}}
	case entity.StyleBand:
		return chart.Style{StrokeColor: color.WithAlpha(160), StrokeWidth: 1}
	case entity.StyleArea:
		return chart.Style{StrokeColor: color, StrokeWidth: 1, FillColor: color.WithAlpha(64)}
	default:
		return chart.Style{StrokeColor: color, StrokeWidth: 1.5}
	}
}

// referenceLine は一定値の水平参照線を生成します。
func referenceLine(name string, span []time.Time, value float64) chart.Series {
	ys := make([]float64, len(span))
	for i := range ys {
		ys[i] = value
	}
	return chart.TimeSeries{
		Name:    name,
		XValues: span,
		YValues: ys,
		Style: chart.Style{
			StrokeColor:     drawing.ColorRed.WithAlpha(128),
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 4},
		},
	}
}
