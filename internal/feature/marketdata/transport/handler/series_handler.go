// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
	"stock_charts/internal/feature/marketdata/transport/http/dto"
	"stock_charts/internal/feature/marketdata/usecase"
)

// SeriesUsecase はロード済み時系列の参照ユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SeriesUsecase interface {
	GetSeries(symbol string) (entity.TimeSeries, error)
	ListSymbols() []string
	Summaries() []usecase.SymbolSummary
}

// SeriesHandler は時系列データのHTTPリクエストを処理します。
type SeriesHandler struct {
	uc SeriesUsecase
}

// NewSeriesHandler はSeriesHandlerの新しいインスタンスを生成します。
func NewSeriesHandler(uc SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// GetSeriesHandler は銘柄の時系列データをJSONで返します。
// tailクエリパラメータで末尾N行に絞り込めます。
//
// エンドポイント例:
// GET /api/stocks/AAPL?tail=100
func (h *SeriesHandler) GetSeriesHandler(c *gin.Context) {
	ticker := c.Param("ticker")

	ts, err := h.uc.GetSeries(ticker)
	if err != nil {
		if errors.Is(err, domain.ErrSeriesNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     err.Error(),
				"available": h.uc.ListSymbols(),
			})
			return
		}
		slog.Error("failed to get series", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	bars := ts.Bars
	if tailStr := c.Query("tail"); tailStr != "" {
		tail, err := strconv.Atoi(tailStr)
		if err != nil || tail <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tail must be a positive integer"})
			return
		}
		if len(bars) > tail {
			bars = bars[len(bars)-tail:]
		}
	}

	out := make([]dto.BarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, dto.FromBar(b))
	}
	c.JSON(http.StatusOK, out)
}

// ListSymbolsHandler は利用可能な銘柄コードの一覧を返します。
//
// エンドポイント例:
// GET /symbols
func (h *SeriesHandler) ListSymbolsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": h.uc.ListSymbols()})
}

// HealthHandler はロード状況付きのヘルスチェックを返します。
//
// エンドポイント例:
// GET /health
func (h *SeriesHandler) HealthHandler(c *gin.Context) {
	summaries := h.uc.Summaries()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"symbols": len(summaries),
		"details": summaries,
	})
}
