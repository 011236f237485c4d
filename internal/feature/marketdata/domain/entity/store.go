package entity

import "sort"

// Store は銘柄コードから検証済みTimeSeriesへの読み取り専用マッピングです。
// 生成後は変更されないため、複数ゴルーチンからロックなしで参照できます。
// 銘柄が存在しない場合はロード失敗か未設定を意味し、呼び出し側は必ず
// 第2戻り値で存在確認を行う必要があります。
type Store struct {
	series  map[string]TimeSeries
	symbols []string
}

// NewStore はロード済みのTimeSeries群から新しいStoreを生成します。
// 同一銘柄が複数回現れた場合は後勝ちです。
func NewStore(list []TimeSeries) *Store {
	series := make(map[string]TimeSeries, len(list))
	for _, ts := range list {
		series[ts.Symbol] = ts
	}
	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	// マップ順に依存しないよう銘柄リストは常にソートして保持
	sort.Strings(symbols)
	return &Store{series: series, symbols: symbols}
}

// Get は銘柄のTimeSeriesを返します。存在しない場合は第2戻り値がfalseです。
func (s *Store) Get(symbol string) (TimeSeries, bool) {
	ts, ok := s.series[symbol]
	return ts, ok
}

// Symbols は格納されている銘柄コードの一覧（昇順）のコピーを返します。
func (s *Store) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Len は格納されている銘柄数を返します。
func (s *Store) Len() int { return len(s.series) }
