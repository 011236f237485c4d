package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
	"stock_charts/internal/feature/marketdata/usecase"
)

// mockSeriesSource はSeriesSourceインターフェースのモック実装です。
type mockSeriesSource struct {
	LoadFunc func(ctx context.Context, symbol string) (entity.TimeSeries, error)
}

func (m *mockSeriesSource) Load(ctx context.Context, symbol string) (entity.TimeSeries, error) {
	return m.LoadFunc(ctx, symbol)
}

func oneBarSeries(symbol string) entity.TimeSeries {
	return entity.TimeSeries{
		Symbol: symbol,
		Bars: []entity.Bar{
			{Time: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), AdjClose: 100, Close: 100},
		},
	}
}

// TestLoadUsecase_LoadAll_PartialFailure は1銘柄の失敗が他の銘柄のロードを
// 妨げないことをテストします。
func TestLoadUsecase_LoadAll_PartialFailure(t *testing.T) {
	t.Parallel()

	src := &mockSeriesSource{
		LoadFunc: func(ctx context.Context, symbol string) (entity.TimeSeries, error) {
			if symbol == "MSFT" {
				return entity.TimeSeries{}, fmt.Errorf("MSFT: %w", domain.ErrSourceNotFound)
			}
			return oneBarSeries(symbol), nil
		},
	}

	uc := usecase.NewLoadUsecase(src)
	store, report := uc.LoadAll(context.Background(), []string{"AAPL", "MSFT", "GOOG"})

	if store.Len() != 2 {
		t.Fatalf("store should hold 2 symbols, got %d", store.Len())
	}
	if _, ok := store.Get("MSFT"); ok {
		t.Error("failed symbol must be absent from the store")
	}
	if len(report.Loaded) != 2 || len(report.Failed) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Failed[0].Symbol != "MSFT" {
		t.Errorf("failed symbol mismatch: %+v", report.Failed[0])
	}
}

// TestLoadUsecase_LoadAll_Normalization は銘柄コードの正規化（トリム・大文字化・
// 空要素の除去）をテストします。
func TestLoadUsecase_LoadAll_Normalization(t *testing.T) {
	t.Parallel()

	var got []string
	src := &mockSeriesSource{
		LoadFunc: func(ctx context.Context, symbol string) (entity.TimeSeries, error) {
			got = append(got, symbol)
			return oneBarSeries(symbol), nil
		},
	}

	uc := usecase.NewLoadUsecase(src)
	store, report := uc.LoadAll(context.Background(), []string{" aapl ", "", "MSFT"})

	want := []string{"AAPL", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("source called with %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source called with %v, want %v", got, want)
		}
	}
	if store.Len() != 2 || len(report.Loaded) != 2 {
		t.Errorf("unexpected result: store=%d report=%+v", store.Len(), report)
	}
}

// TestLoadUsecase_LoadAll_AllFailed は全滅時に空のStoreと失敗レポートが
// 返ることをテストします。
func TestLoadUsecase_LoadAll_AllFailed(t *testing.T) {
	t.Parallel()

	src := &mockSeriesSource{
		LoadFunc: func(ctx context.Context, symbol string) (entity.TimeSeries, error) {
			return entity.TimeSeries{}, errors.New("disk on fire")
		},
	}

	uc := usecase.NewLoadUsecase(src)
	store, report := uc.LoadAll(context.Background(), []string{"AAPL", "MSFT"})

	if store.Len() != 0 {
		t.Errorf("store should be empty, got %d", store.Len())
	}
	if len(report.Failed) != 2 || len(report.Loaded) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}
