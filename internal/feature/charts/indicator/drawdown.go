package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// Drawdown は累積リターンの直近ピークからの下落率を返します。
//
// cumulative[i] = Π(1+return[k]) (k≤i)、
// drawdown[i] = cumulative[i] / max(cumulative[0..i]) - 1 です。
// 常に0以下で、累積リターンが新高値を更新した点ではちょうど0になります。
// 出力はDailyReturnsと同様、リターンが定義できない先頭の1点を含みません。
func Drawdown(s entity.Series) entity.Series {
	rets := DailyReturns(s)
	out := make(entity.Series, len(rets))

	cum := 1.0
	peak := 0.0
	seeded := false
	for i, p := range rets {
		out[i] = entity.Point{Time: p.Time, Value: missing()}
		if isMissing(p.Value) {
			// 欠損リターンは累積を進めない
			continue
		}
		cum *= 1 + p.Value
		if !seeded || cum > peak {
			peak = cum
			seeded = true
		}
		out[i].Value = cum/peak - 1
	}
	return out
}
