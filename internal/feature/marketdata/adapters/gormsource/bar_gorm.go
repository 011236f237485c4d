// Package gormsource は取り込み済みのBarをリレーショナルDBから読み書きする
// アダプターです。cmd/ingest が書き込み、サーバーはDATA_BACKEND=db のときに
// ここからStoreを構築します。
package gormsource

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
	"stock_charts/internal/feature/marketdata/usecase"
)

type barGorm struct {
	db *gorm.DB
}

var _ usecase.SeriesSource = (*barGorm)(nil)

// NewBarRepository はgorm接続を使うBarリポジトリを生成します。
func NewBarRepository(db *gorm.DB) *barGorm {
	return &barGorm{db: db}
}

// BarModel はbarsテーブルの行です。欠損フィールドはNULLで表現します。
type BarModel struct {
	ID     uint      `gorm:"primaryKey"`
	Symbol string    `gorm:"size:16;not null;uniqueIndex:bar_sym_time,priority:1"`
	Time   time.Time `gorm:"not null;uniqueIndex:bar_sym_time,priority:2"`

	Open     *float64
	High     *float64
	Low      *float64
	Close    *float64
	AdjClose *float64
	Volume   *float64
}

func (BarModel) TableName() string {
	return "bars"
}

// toColumn はNaN欠損をNULLへ変換します。
func toColumn(v float64) *float64 {
	if entity.IsMissing(v) {
		return nil
	}
	return &v
}

// fromColumn はNULLをNaN欠損へ戻します。
func fromColumn(p *float64) float64 {
	if p == nil {
		return entity.Missing()
	}
	return *p
}

func toModel(symbol string, b entity.Bar) BarModel {
	return BarModel{
		Symbol:   symbol,
		Time:     b.Time,
		Open:     toColumn(b.Open),
		High:     toColumn(b.High),
		Low:      toColumn(b.Low),
		Close:    toColumn(b.Close),
		AdjClose: toColumn(b.AdjClose),
		Volume:   toColumn(b.Volume),
	}
}

// UpsertBatch は(symbol, time)をユニークキーとして系列をUpsertします。
func (r *barGorm) UpsertBatch(ctx context.Context, ts entity.TimeSeries) error {
	if ts.Empty() {
		return nil
	}
	ms := make([]BarModel, 0, ts.Len())
	for _, b := range ts.Bars {
		ms = append(ms, toModel(ts.Symbol, b))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "adj_close", "volume"}),
	}).Create(&ms).Error
}

// Load は銘柄の取り込み済みBarを昇順で読み出し、TimeSeriesとして返します。
// 取り込みデータが存在しない銘柄はErrSourceNotFoundを返します。
func (r *barGorm) Load(ctx context.Context, symbol string) (entity.TimeSeries, error) {
	var rows []BarModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}}).
		Find(&rows).Error
	if err != nil {
		return entity.TimeSeries{}, err
	}
	if len(rows) == 0 {
		return entity.TimeSeries{}, fmt.Errorf("%s: %w", symbol, domain.ErrSourceNotFound)
	}

	bars := make([]entity.Bar, 0, len(rows))
	for _, m := range rows {
		bars = append(bars, entity.Bar{
			Time:     m.Time,
			Open:     fromColumn(m.Open),
			High:     fromColumn(m.High),
			Low:      fromColumn(m.Low),
			Close:    fromColumn(m.Close),
			AdjClose: fromColumn(m.AdjClose),
			Volume:   fromColumn(m.Volume),
		})
	}
	return entity.TimeSeries{Symbol: symbol, Bars: bars}, nil
}
