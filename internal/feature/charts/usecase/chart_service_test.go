package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_charts/internal/feature/charts/domain"
	"stock_charts/internal/feature/charts/domain/entity"
)

// mockRenderer はRenderをテスト側で差し替えられるモックです。
type mockRenderer struct {
	RenderFunc func(ctx context.Context, ds *entity.ChartDataset) ([]byte, error)
}

func (m *mockRenderer) Render(ctx context.Context, ds *entity.ChartDataset) ([]byte, error) {
	return m.RenderFunc(ctx, ds)
}

func TestGetChart_Success(t *testing.T) {
	resolver := newTestResolver(seriesOf("AAPL", 100, 101, 102, 103))
	var got *entity.ChartDataset
	svc := NewChartService(resolver, &mockRenderer{
		RenderFunc: func(ctx context.Context, ds *entity.ChartDataset) ([]byte, error) {
			got = ds
			return []byte("png-bytes"), nil
		},
	})

	res, err := svc.GetChart(context.Background(), entity.ChartRequest{
		Symbols: []string{"AAPL", "ZZZZ"},
		Type:    entity.ChartDailyReturns,
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), res.Image)
	assert.Equal(t, []string{"ZZZZ"}, res.Skipped)
	require.NotNil(t, got)
	assert.Equal(t, entity.ChartDailyReturns, got.Type)
}

func TestGetChart_ValidationErrorPassesThrough(t *testing.T) {
	resolver := newTestResolver(seriesOf("AAPL", 100, 101, 102))
	svc := NewChartService(resolver, &mockRenderer{
		RenderFunc: func(ctx context.Context, ds *entity.ChartDataset) ([]byte, error) {
			t.Fatal("render should not be called on validation failure")
			return nil, nil
		},
	})

	_, err := svc.GetChart(context.Background(), entity.ChartRequest{Type: entity.ChartRSI})
	assert.ErrorIs(t, err, domain.ErrMissingSymbols)
}

func TestGetChart_RenderFailureWrapped(t *testing.T) {
	resolver := newTestResolver(seriesOf("AAPL", 100, 101, 102))
	renderErr := errors.New("encode failed")
	svc := NewChartService(resolver, &mockRenderer{
		RenderFunc: func(ctx context.Context, ds *entity.ChartDataset) ([]byte, error) {
			return nil, renderErr
		},
	})

	_, err := svc.GetChart(context.Background(), entity.ChartRequest{
		Symbols: []string{"AAPL"},
		Type:    entity.ChartDailyReturns,
	})

	var ce *domain.ComputationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, renderErr)
}
