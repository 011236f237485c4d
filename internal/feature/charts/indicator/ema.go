package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// EMA はスパンspanの指数移動平均を返します。平滑化係数は α = 2/(span+1) で、
// 漸化式は ema[0] = value[0]; ema[i] = α*value[i] + (1-α)*ema[i-1] です。
// 先頭値でシードする（ルックバック補正なし）ため、最初の非欠損値以降の
// すべての添字で定義されます。欠損値は状態を進めず、直前のEMAをそのまま
// 出力します。
func EMA(s entity.Series, span int) entity.Series {
	out := make(entity.Series, len(s))
	if span < 1 {
		for i := range s {
			out[i] = entity.Point{Time: s[i].Time, Value: missing()}
		}
		return out
	}

	alpha := 2.0 / float64(span+1)
	prev := missing()
	for i, p := range s {
		switch {
		case isMissing(p.Value):
			// 状態は変えない
		case isMissing(prev):
			prev = p.Value
		default:
			prev = alpha*p.Value + (1-alpha)*prev
		}
		out[i] = entity.Point{Time: p.Time, Value: prev}
	}
	return out
}
