// Package entity はマーケットデータの時系列ドメインエンティティを定義します。
package entity

import (
	"math"
	"time"
)

// Missing は欠損数値のマーカー値を返します。
func Missing() float64 { return math.NaN() }

// IsMissing は値が欠損かどうかを返します。
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Bar は1営業日分のOHLCVデータです。
// 数値フィールドはNaNで欠損を表します。Timeは常に有効です。
type Bar struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// HasNumeric は数値フィールドのうち少なくとも1つが欠損でないかを返します。
func (b Bar) HasNumeric() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume} {
		if !IsMissing(v) {
			return true
		}
	}
	return false
}

// HasOHLC は始値・高値・安値・終値がすべて揃っているかを返します。
// ローソク足描画の前提条件です。
func (b Bar) HasOHLC() bool {
	return !IsMissing(b.Open) && !IsMissing(b.High) && !IsMissing(b.Low) && !IsMissing(b.Close)
}
