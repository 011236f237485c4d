package entity

// TimeSeries は1銘柄分の時系列です。
// 不変条件: Barsはタイムスタンプ昇順、重複なし、各Barは1つ以上の数値フィールドを持つ。
// ローダーを通過したTimeSeriesはこの不変条件を満たします。
type TimeSeries struct {
	Symbol string
	Bars   []Bar
}

// Len は保持しているBarの数を返します。
func (ts TimeSeries) Len() int { return len(ts.Bars) }

// Empty はBarを1つも持たないかを返します。
func (ts TimeSeries) Empty() bool { return len(ts.Bars) == 0 }

// HasAdjClose は修正終値が1つでも存在するかを返します。
// 価格系チャートはこのフィールドを入力とするため、全欠損の系列は対象外になります。
func (ts TimeSeries) HasAdjClose() bool {
	for _, b := range ts.Bars {
		if !IsMissing(b.AdjClose) {
			return true
		}
	}
	return false
}
