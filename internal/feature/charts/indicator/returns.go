package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// DailyReturns は連続する2点間の変化率を返します。
// リターンが定義できない先頭の1点は出力から除外します（ゼロで埋めない）。
func DailyReturns(s entity.Series) entity.Series {
	if len(s) < 2 {
		return entity.Series{}
	}
	out := make(entity.Series, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		v := missing()
		prev, cur := s[i-1].Value, s[i].Value
		if !isMissing(prev) && !isMissing(cur) && prev != 0 {
			v = cur/prev - 1
		}
		out = append(out, entity.Point{Time: s[i].Time, Value: v})
	}
	return out
}
