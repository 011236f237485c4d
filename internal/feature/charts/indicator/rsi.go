package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// DefaultRSIWindow はRSIの既定の窓サイズです。
const DefaultRSIWindow = 14

// RSI はトレーリングウィンドウ平均による相対力指数を返します。
//
// 上昇幅の平均と下落幅の平均から RS = avgGain/avgLoss、
// RSI = 100 - 100/(1+RS) を計算します。変化量がちょうどゼロの日と欠損の日は
// どちらの平均にも寄与しません（ゼロ寄与規約）。
//
// エッジケース: avgLoss = 0 かつ avgGain > 0 のときRSIは100に飽和します
// （ゼロ除算で落ちない）。avgGain = avgLoss = 0（横ばい）のときは欠損です。
// 50をでっち上げることはありません。
func RSI(s entity.Series, window int) entity.Series {
	out := make(entity.Series, len(s))
	for i := range s {
		out[i] = entity.Point{Time: s[i].Time, Value: missing()}
	}
	if window < 1 || len(s) < window {
		return out
	}

	// gains[i]/losses[i] は添字i-1からiへの変化量の正負成分。
	// 添字0（変化量が存在しない）と欠損値を挟む変化量はゼロ寄与。
	gains := make([]float64, len(s))
	losses := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1].Value, s[i].Value
		if isMissing(prev) || isMissing(cur) {
			continue
		}
		delta := cur - prev
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var sumGain, sumLoss float64
	for i := 0; i < len(s); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
		if i >= window {
			sumGain -= gains[i-window]
			sumLoss -= losses[i-window]
		}
		// 窓内にwindow本の変化量（先頭のゼロ寄与を含む）が揃うのは添字window-1以降
		if i < window-1 {
			continue
		}
		avgGain := sumGain / float64(window)
		avgLoss := sumLoss / float64(window)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// 横ばいはRSI未定義のまま
		case avgLoss == 0:
			out[i].Value = 100
		default:
			rs := avgGain / avgLoss
			out[i].Value = 100 - 100/(1+rs)
		}
	}
	return out
}
