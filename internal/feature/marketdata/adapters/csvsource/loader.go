// Package csvsource は銘柄ごとのCSVファイルから時系列を読み込むアダプターです。
//
// 対象のCSVはyfinanceのエクスポート形式で、先頭数行にヘッダー/メタデータ行を
// 含むことがあります。列順は Date, Adj Close, Close, High, Low, Open, Volume です。
package csvsource

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
)

// CSVの列位置。
const (
	colDate = iota
	colAdjClose
	colClose
	colHigh
	colLow
	colOpen
	colVolume
)

// 日付フィールドに現れたらヘッダー/メタデータ行とみなすトークン。
// yfinance形式では "Price", "Ticker", "Date" の3行が先頭に入ります。
var headerTokens = []string{"date", "ticker", "price"}

// IsHeaderRow は日付フィールドの文字列からヘッダー/メタデータ行かどうかを判定します。
// 大文字小文字を区別しない部分一致で判定します。
func IsHeaderRow(dateField string) bool {
	f := strings.ToLower(dateField)
	for _, tok := range headerTokens {
		if strings.Contains(f, tok) {
			return true
		}
	}
	return false
}

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateOnlyLayout = "2006-01-02"
)

// stripDateSuffix は末尾の小数秒とUTCオフセットを取り除きます。
//
//	"2020-01-02 00:00:00+00:00"  → "2020-01-02 00:00:00"
//	"2020-01-02 00:00:00.000000" → "2020-01-02 00:00:00"
func stripDateSuffix(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	// 日付部分のハイフンと区別するため、オフセットの '-' は時刻部分でのみ探す
	if i := strings.LastIndexByte(s, '-'); i > 10 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// parseDate は日付文字列をパースします。まず厳密なフォーマットを試し、
// 失敗したらサフィックスを除去したうえで再試行します。
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, true
	}
	cleaned := stripDateSuffix(s)
	if t, err := time.Parse(dateTimeLayout, cleaned); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateOnlyLayout, cleaned); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// coerce は数値フィールドをfloat64に変換します。変換できない場合は
// そのフィールドだけが欠損になります（行全体は無効化しない）。
func coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return entity.Missing()
	}
	return v
}

// field は行から指定位置のフィールドを取り出します。列が足りない行は
// 欠損フィールドとして扱います。
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Load は生の表形式行から検証済みのTimeSeriesを構築します。
//
// 壊れた行は行単位で捨て、残った行から系列を組み立てます（部分的な破損が
// あってもロード全体は失敗しません）。有効な日付を持つ行が1行もない場合と、
// フィルタリング後に行が残らない場合はエラーを返します。
func Load(symbol string, rows [][]string) (entity.TimeSeries, error) {
	bars := make([]entity.Bar, 0, len(rows))
	sawValidDate := false

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		date := strings.TrimSpace(row[colDate])
		if IsHeaderRow(date) {
			continue
		}
		t, ok := parseDate(date)
		if !ok {
			continue
		}
		sawValidDate = true

		b := entity.Bar{
			Time:     t,
			Open:     coerce(field(row, colOpen)),
			High:     coerce(field(row, colHigh)),
			Low:      coerce(field(row, colLow)),
			Close:    coerce(field(row, colClose)),
			AdjClose: coerce(field(row, colAdjClose)),
			Volume:   coerce(field(row, colVolume)),
		}
		// 全フィールド欠損の行は保持しない
		if !b.HasNumeric() {
			continue
		}
		bars = append(bars, b)
	}

	if !sawValidDate {
		return entity.TimeSeries{}, fmt.Errorf("%s: %w", symbol, domain.ErrNoValidDates)
	}
	if len(bars) == 0 {
		return entity.TimeSeries{}, fmt.Errorf("%s: %w", symbol, domain.ErrEmptySeries)
	}

	bars = dedupeKeepLast(bars)
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return entity.TimeSeries{Symbol: symbol, Bars: bars}, nil
}

// dedupeKeepLast はタイムスタンプの重複を取り除きます。
// 行の複製事故に備え、後に現れた行を採用します。
func dedupeKeepLast(bars []entity.Bar) []entity.Bar {
	index := make(map[int64]int, len(bars))
	out := make([]entity.Bar, 0, len(bars))
	for _, b := range bars {
		key := b.Time.UnixNano()
		if i, ok := index[key]; ok {
			out[i] = b
			continue
		}
		index[key] = len(out)
		out = append(out, b)
	}
	return out
}
