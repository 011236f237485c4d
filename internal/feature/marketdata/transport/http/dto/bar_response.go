// Package dto はmarketdataフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"stock_charts/internal/feature/marketdata/domain/entity"
)

// BarResponse は1営業日分のレスポンスです。欠損値はnullで表現します。
type BarResponse struct {
	Time     string   `json:"time"`
	Open     *float64 `json:"open"`
	High     *float64 `json:"high"`
	Low      *float64 `json:"low"`
	Close    *float64 `json:"close"`
	AdjClose *float64 `json:"adj_close"`
	Volume   *float64 `json:"volume"`
}

// FromBar はドメインエンティティをレスポンスDTOへ変換します。
func FromBar(b entity.Bar) BarResponse {
	return BarResponse{
		Time:     b.Time.UTC().Format("2006-01-02"),
		Open:     nullable(b.Open),
		High:     nullable(b.High),
		Low:      nullable(b.Low),
		Close:    nullable(b.Close),
		AdjClose: nullable(b.AdjClose),
		Volume:   nullable(b.Volume),
	}
}

// nullable はNaNをnullへ写します。
func nullable(v float64) *float64 {
	if entity.IsMissing(v) {
		return nil
	}
	return &v
}
