package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"stock_charts/internal/feature/charts/domain/entity"
)

// 描画マージン（ピクセル）
const (
	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 50.0
	marginBottom = 50.0
)

// renderCandlestick はローソク足チャートをggで描画します。
// 陽線は緑、陰線は赤、ヒゲは細線で表現します。
func renderCandlestick(ds *entity.ChartDataset) ([]byte, error) {
	if len(ds.Candles) == 0 {
		return nil, fmt.Errorf("no candles in dataset %q", ds.Title)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range ds.Candles {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	if lo == hi {
		// 全バーが同一価格でも高さゼロのプロットにしない
		lo, hi = lo-1, hi+1
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	plotW := float64(chartWidth) - marginLeft - marginRight
	plotH := float64(chartHeight) - marginTop - marginBottom
	yOf := func(price float64) float64 {
		return marginTop + plotH*(1-(price-lo)/(hi-lo))
	}
	slot := plotW / float64(len(ds.Candles))
	bodyW := math.Max(1, slot*0.7)

	drawAxes(dc, lo, hi, yOf)

	for i, c := range ds.Candles {
		x := marginLeft + slot*(float64(i)+0.5)

		// ヒゲ
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.SetLineWidth(1)
		dc.DrawLine(x, yOf(c.High), x, yOf(c.Low))
		dc.Stroke()

		// 実体
		if c.Close >= c.Open {
			dc.SetRGB(0.1, 0.6, 0.3)
		} else {
			dc.SetRGB(0.8, 0.2, 0.2)
		}
		top := yOf(math.Max(c.Open, c.Close))
		bottom := yOf(math.Min(c.Open, c.Close))
		if bottom-top < 1 {
			bottom = top + 1
		}
		dc.DrawRectangle(x-bodyW/2, top, bodyW, bottom-top)
		dc.Fill()
	}

	// タイトルと日付ラベル
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(ds.Title, float64(chartWidth)/2, marginTop/2, 0.5, 0.5)
	first := ds.Candles[0].Time.Format("2006-01-02")
	last := ds.Candles[len(ds.Candles)-1].Time.Format("2006-01-02")
	dc.DrawStringAnchored(first, marginLeft, float64(chartHeight)-marginBottom/2, 0, 0.5)
	dc.DrawStringAnchored(last, float64(chartWidth)-marginRight, float64(chartHeight)-marginBottom/2, 1, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode candlestick png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawAxes は枠線と価格目盛りを描画します。
func drawAxes(dc *gg.Context, lo, hi float64, yOf func(float64) float64) {
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawRectangle(marginLeft, marginTop,
		float64(chartWidth)-marginLeft-marginRight,
		float64(chartHeight)-marginTop-marginBottom)
	dc.Stroke()

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		price := lo + (hi-lo)*float64(i)/ticks
		y := yOf(price)
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.DrawLine(marginLeft, y, float64(chartWidth)-marginRight, y)
		dc.Stroke()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", price), marginLeft-8, y, 1, 0.5)
	}
}
