// Package domain はチャート解決のエラー分類を定義します。
// すべてのエラーは構造化されて呼び出し側へ返され、生のスタックトレースが
// ユーザーに露出することはありません。
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// リクエスト検証エラー。パラメータ不備は黙ってデフォルトに倒さず必ず報告します。
var (
	// ErrMissingSymbols はトリム・重複除去後の銘柄リストが空の場合のエラーです。
	ErrMissingSymbols = errors.New("symbols parameter is required")

	// ErrUnknownChartType は認識されないチャート種別が指定された場合のエラーです。
	ErrUnknownChartType = errors.New("unknown chart type")

	// ErrSingleSymbolOnly は単一銘柄チャート（candlestick, volume, sma_ema）に
	// 複数の銘柄が指定された場合のエラーです。
	ErrSingleSymbolOnly = errors.New("chart type accepts exactly one symbol")

	// ErrNoAdjClose は価格系チャートで、有効な銘柄の修正終値がすべて欠損の
	// 場合のエラーです。
	ErrNoAdjClose = errors.New("adjusted close data not available")
)

// SymbolNotFoundError は要求された銘柄が1つもStoreに存在しない場合のエラーです。
// 呼び出し側が自己修正できるよう、無効な銘柄と利用可能な銘柄の両方を持ちます。
type SymbolNotFoundError struct {
	Invalid   []string
	Available []string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("no valid symbols: invalid=[%s] available=[%s]",
		strings.Join(e.Invalid, ", "), strings.Join(e.Available, ", "))
}

// InsufficientDataError は要求された窓に対して計算結果がすべて欠損になった
// 場合のエラーです（例: 窓サイズが履歴長を超える）。空のチャートを成功として
// 返すことはありません。
type InsufficientDataError struct {
	Window int
}

func (e *InsufficientDataError) Error() string {
	if e.Window > 0 {
		return fmt.Sprintf("insufficient data for window size %d", e.Window)
	}
	return "insufficient data for the requested chart"
}

// ComputationError は指標計算や描画での予期しない失敗を表します。
// 内部エラーとして報告されます。
type ComputationError struct {
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("chart computation failed: %v", e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
