// Package domain はmarketdataフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// ローダーのエラー。1銘柄のロード失敗はその銘柄に限定され、
// 他の銘柄のロードやプロセス全体には影響しません。
var (
	// ErrSourceNotFound はソースデータ（CSVファイルや取り込み済みレコード）が
	// 存在しない場合に返されます。
	ErrSourceNotFound = errors.New("source data not found")

	// ErrNoValidDates はヘッダー行を除いたうえで、有効な日付を持つ行が
	// 1行も存在しない場合に返されます。
	ErrNoValidDates = errors.New("no rows with a valid date")

	// ErrEmptySeries はフィルタリング後に有効なデータ行が残らなかった場合に
	// 返されます。
	ErrEmptySeries = errors.New("series is empty after filtering")

	// ErrSeriesNotFound はStoreに要求された銘柄が存在しない場合に返されます。
	ErrSeriesNotFound = errors.New("series not found for symbol")
)
