package usecase

import (
	"sync/atomic"

	"stock_charts/internal/feature/marketdata/domain/entity"
)

// StoreHolder は現在の読み取り専用Storeへの参照を保持します。
// Store自体は不変で、リロード時は新しいStoreへの参照をアトミックに
// 差し替えるだけなので、読み手はロックなしで参照できます。
type StoreHolder struct {
	v atomic.Pointer[entity.Store]
}

// NewStoreHolder は初期Storeを保持するStoreHolderを生成します。
func NewStoreHolder(s *entity.Store) *StoreHolder {
	h := &StoreHolder{}
	h.v.Store(s)
	return h
}

// Current は現在のStoreを返します。
func (h *StoreHolder) Current() *entity.Store {
	return h.v.Load()
}

// Replace はStore全体を新しいものに差し替えます。
// 進行中のリクエストは差し替え前のStoreを読み続けます。
func (h *StoreHolder) Replace(s *entity.Store) {
	h.v.Store(s)
}
