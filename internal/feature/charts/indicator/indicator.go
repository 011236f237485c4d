// Package indicator は価格系列から派生系列を計算する純粋関数群です。
//
// すべての関数は末尾揃えのトレーリングウィンドウ規約に従います。添字iの値は
// 添字i以下のデータだけから計算され、先読みはありません。ウォームアップ期間の
// 値はNaN（欠損）になり、値をでっち上げることはありません。関数は共有状態を
// 持たず入力を変更しないため、並行リクエストから自由に呼び出せます。
//
// 空または全欠損の入力でパニックすることはなく、空/全欠損の系列を返します。
// それをリクエストレベルのエラーにするかどうかはResolverが判断します。
package indicator

import "math"

func missing() float64 { return math.NaN() }

func isMissing(v float64) bool { return math.IsNaN(v) }
