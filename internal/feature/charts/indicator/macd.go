package indicator

import "stock_charts/internal/feature/charts/domain/entity"

// MACDの既定パラメータ。
const (
	DefaultMACDShort  = 12
	DefaultMACDLong   = 26
	DefaultMACDSignal = 9
)

// MACDLines はMACD線とシグナル線です。EMAのシード規則により、SMA系の指標と
// 違ってどちらも添字0から定義されます。
type MACDLines struct {
	MACD   entity.Series
	Signal entity.Series
}

// MACD は短期EMAと長期EMAの差（MACD線）と、その指数平滑（シグナル線）を
// 返します。
func MACD(s entity.Series, short, long, signal int) MACDLines {
	shortEMA := EMA(s, short)
	longEMA := EMA(s, long)

	line := make(entity.Series, len(s))
	for i := range s {
		v := missing()
		if !isMissing(shortEMA[i].Value) && !isMissing(longEMA[i].Value) {
			v = shortEMA[i].Value - longEMA[i].Value
		}
		line[i] = entity.Point{Time: s[i].Time, Value: v}
	}

	return MACDLines{MACD: line, Signal: EMA(line, signal)}
}
