package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// SMA は期間windowのトレーリング単純移動平均を返します。
// 先頭のwindow-1点は履歴不足のため欠損です。窓内に欠損値が含まれる点も
// 欠損になります。window < 1 の場合は全点欠損の系列を返します。
func SMA(s entity.Series, window int) entity.Series {
	out := make(entity.Series, len(s))
	for i := range s {
		out[i] = entity.Point{Time: s[i].Time, Value: missing()}
	}
	if window < 1 || len(s) < window {
		return out
	}

	sum := 0.0
	nanCount := 0
	for i := range s {
		if isMissing(s[i].Value) {
			nanCount++
		} else {
			sum += s[i].Value
		}
		if i >= window {
			old := s[i-window].Value
			if isMissing(old) {
				nanCount--
			} else {
				sum -= old
			}
		}
		if i >= window-1 && nanCount == 0 {
			out[i].Value = sum / float64(window)
		}
	}
	return out
}
