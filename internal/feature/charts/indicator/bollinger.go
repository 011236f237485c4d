package indicator

import (
	"math"

	"stock_charts/internal/feature/charts/domain/entity"
)

// DefaultBollingerWindow はボリンジャーバンドの既定の窓サイズです。
const DefaultBollingerWindow = 20

// Bands はボリンジャーバンドの3系列です。
type Bands struct {
	Mid   entity.Series // トレーリングSMA
	Upper entity.Series // Mid + 2σ
	Lower entity.Series // Mid - 2σ
}

// BollingerBands は中心SMAと±2σのバンドを返します。σはトレーリング
// ウィンドウの標本標準偏差（n-1分母）です。ウォームアップ期間は3系列とも
// 欠損です。
func BollingerBands(s entity.Series, window int) Bands {
	mid := SMA(s, window)
	upper := make(entity.Series, len(s))
	lower := make(entity.Series, len(s))
	for i := range s {
		upper[i] = entity.Point{Time: s[i].Time, Value: missing()}
		lower[i] = entity.Point{Time: s[i].Time, Value: missing()}
	}
	if window < 2 || len(s) < window {
		return Bands{Mid: mid, Upper: upper, Lower: lower}
	}

	for i := window - 1; i < len(s); i++ {
		m := mid[i].Value
		if isMissing(m) {
			continue
		}
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := s[j].Value - m
			ss += d * d
		}
		sigma := math.Sqrt(ss / float64(window-1))
		upper[i].Value = m + 2*sigma
		lower[i].Value = m - 2*sigma
	}
	return Bands{Mid: mid, Upper: upper, Lower: lower}
}
