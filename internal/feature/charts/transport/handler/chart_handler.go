// Package handler はchartsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_charts/internal/feature/charts/domain/entity"
	"stock_charts/internal/feature/charts/transport/http/dto"
	"stock_charts/internal/feature/charts/usecase"
)

// HeaderSkippedSymbols は部分的成功時に除外銘柄を伝えるレスポンスヘッダです。
const HeaderSkippedSymbols = "X-Skipped-Symbols"

// ChartProvider はチャート生成レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ChartProvider interface {
	GetChart(ctx context.Context, req entity.ChartRequest) (*usecase.ChartResult, error)
}

// ChartHandler はチャート生成のHTTPリクエストを処理します。
// 成功時はPNG画像を返し、部分的成功はX-Skipped-Symbolsヘッダで伝えます。
type ChartHandler struct {
	charts ChartProvider
}

// NewChartHandler はChartHandlerの新しいインスタンスを生成します。
func NewChartHandler(charts ChartProvider) *ChartHandler {
	return &ChartHandler{charts: charts}
}

// GetGraphHandler は汎用チャートエンドポイントを処理します。
// 銘柄はカンマ区切りまたは複数クエリパラメータで指定できます。
//
// エンドポイント例:
// GET /stock/graph?tickers=AAPL,MSFT&type=rsi&window=14
func (h *ChartHandler) GetGraphHandler(c *gin.Context) {
	q := intParams{c: c}
	req := entity.ChartRequest{
		Symbols:    querySymbols(c, "tickers"),
		Type:       entity.ChartType(c.Query("type")),
		Window:     q.get("window"),
		MACDShort:  q.get("macd_short"),
		MACDLong:   q.get("macd_long"),
		MACDSignal: q.get("macd_signal"),
		Tail:       q.get("tail"),
	}
	if rejectBadParams(c, q) {
		return
	}
	h.serve(c, req)
}

// GetSMAEMAHandler は単一銘柄のSMA/EMAオーバーレイチャートを処理します。
//
// エンドポイント例:
// GET /stock/sma-ema?ticker=AAPL&sma_window=20&ema_span=20
func (h *ChartHandler) GetSMAEMAHandler(c *gin.Context) {
	q := intParams{c: c}
	req := entity.ChartRequest{
		Symbols:   querySymbols(c, "ticker"),
		Type:      entity.ChartSMAEMA,
		SMAWindow: q.get("sma_window"),
		EMASpan:   q.get("ema_span"),
	}
	if rejectBadParams(c, q) {
		return
	}
	h.serve(c, req)
}

// GetCandlestickHandler は単一銘柄のローソク足チャートを処理します。
//
// エンドポイント例:
// GET /api/stocks/AAPL/chart?tail=250
func (h *ChartHandler) GetCandlestickHandler(c *gin.Context) {
	q := intParams{c: c}
	req := entity.ChartRequest{
		Symbols: []string{c.Param("ticker")},
		Type:    entity.ChartCandlestick,
		Tail:    q.get("tail"),
	}
	if rejectBadParams(c, q) {
		return
	}
	h.serve(c, req)
}

// GetVolumeHandler は単一銘柄の出来高チャートを処理します。
//
// エンドポイント例:
// GET /api/stocks/AAPL/volume
func (h *ChartHandler) GetVolumeHandler(c *gin.Context) {
	req := entity.ChartRequest{
		Symbols: []string{c.Param("ticker")},
		Type:    entity.ChartVolume,
	}
	h.serve(c, req)
}

// GetDrawdownHandler はドローダウンチャートを処理します。
// 銘柄未指定時は設定済み全銘柄が対象になります。
//
// エンドポイント例:
// GET /api/stocks/drawdown?tickers=AAPL,MSFT
func (h *ChartHandler) GetDrawdownHandler(c *gin.Context) {
	req := entity.ChartRequest{
		Symbols: querySymbols(c, "tickers"),
		Type:    entity.ChartDrawdown,
	}
	h.serve(c, req)
}

// serve はリクエストを解決・描画し、PNGまたは構造化エラーを返します。
func (h *ChartHandler) serve(c *gin.Context, req entity.ChartRequest) {
	res, err := h.charts.GetChart(c.Request.Context(), req)
	if err != nil {
		status, body := dto.FromError(err)
		if status == http.StatusInternalServerError {
			slog.Error("chart request failed", "type", req.Type, "symbols", req.Symbols, "error", err)
		} else {
			slog.Warn("chart request rejected", "type", req.Type, "symbols", req.Symbols, "error", err)
		}
		c.JSON(status, body)
		return
	}

	if len(res.Skipped) > 0 {
		c.Header(HeaderSkippedSymbols, strings.Join(res.Skipped, ","))
	}
	c.Data(http.StatusOK, "image/png", res.Image)
}

// querySymbols はカンマ区切り・繰り返し指定の両方の銘柄パラメータを集めます。
func querySymbols(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// intParams は整数クエリパラメータをまとめて読みます。パラメータの欠如は0
// （後段でデフォルト適用）、明示された不正値は最初の1件をエラーとして記録します。
type intParams struct {
	c   *gin.Context
	err error
}

func (p *intParams) get(key string) int {
	raw := p.c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		if p.err == nil {
			p.err = fmt.Errorf("parameter %q must be a positive integer, got %q", key, raw)
		}
		return 0
	}
	return v
}

// rejectBadParams は不正な数値パラメータをvalidation_errorとして報告します。
// 黙ってデフォルトに置き換えることはしません。
func rejectBadParams(c *gin.Context, q intParams) bool {
	if q.err == nil {
		return false
	}
	slog.Warn("chart request rejected", "error", q.err)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    dto.CodeValidationError,
		Message: q.err.Error(),
	})
	return true
}
