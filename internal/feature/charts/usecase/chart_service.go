package usecase

import (
	"context"

	"stock_charts/internal/feature/charts/domain"
	"stock_charts/internal/feature/charts/domain/entity"
)

// Renderer はChartDatasetを画像へ描画するバックエンドを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Renderer interface {
	// Render はデータセットをPNG画像に描画します。
	Render(ctx context.Context, ds *entity.ChartDataset) ([]byte, error)
}

// ChartResult は解決・描画されたチャート1枚分の結果です。
type ChartResult struct {
	// Image はPNGのバイト列です。
	Image []byte `json:"image"`
	// Skipped は計算から除外された銘柄です。
	Skipped []string `json:"skipped"`
}

// ChartService はリクエストの解決と描画をまとめたユースケースです。
type ChartService struct {
	resolver *Resolver
	renderer Renderer
}

// NewChartService はChartServiceの新しいインスタンスを生成します。
func NewChartService(resolver *Resolver, renderer Renderer) *ChartService {
	return &ChartService{resolver: resolver, renderer: renderer}
}

// GetChart はリクエストを解決してPNG画像を生成します。
// 検証エラーはそのまま返し、描画の失敗はComputationErrorとして包みます。
func (s *ChartService) GetChart(ctx context.Context, req entity.ChartRequest) (*ChartResult, error) {
	ds, err := s.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}

	img, err := s.renderer.Render(ctx, ds)
	if err != nil {
		return nil, &domain.ComputationError{Err: err}
	}

	return &ChartResult{Image: img, Skipped: ds.Skipped}, nil
}
