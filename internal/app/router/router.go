package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	adminhandler "stock_charts/internal/feature/admin/transport/handler"
	charthandler "stock_charts/internal/feature/charts/transport/handler"
	mdhandler "stock_charts/internal/feature/marketdata/transport/handler"
	platformhandler "stock_charts/internal/platform/http/handler"
	jwtmw "stock_charts/internal/platform/jwt"
)

func NewRouter(series *mdhandler.SeriesHandler, charts *charthandler.ChartHandler,
	admin *adminhandler.AdminHandler) *gin.Engine {
	r := gin.Default()

	// フロントエンドから直接画像を参照できるようにCORSを許可
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	// ロード状況付きヘルスチェック
	r.GET("/health", series.HealthHandler)
	// 利用可能な銘柄一覧
	r.GET("/symbols", series.ListSymbolsHandler)

	// 時系列データ（JSON）
	r.GET("/api/stocks/:ticker", series.GetSeriesHandler)

	// チャート（PNG）
	r.GET("/stock/graph", charts.GetGraphHandler)
	r.GET("/stock/sma-ema", charts.GetSMAEMAHandler)
	r.GET("/api/stocks/drawdown", charts.GetDrawdownHandler)
	r.GET("/api/stocks/:ticker/chart", charts.GetCandlestickHandler)
	r.GET("/api/stocks/:ticker/volume", charts.GetVolumeHandler)

	// ログイン（JWT発行）
	r.POST("/admin/login", admin.Login)

	// 認証必須のルート
	authed := r.Group("/admin")
	// リクエストヘッダーにJWTが必要になる
	authed.Use(jwtmw.AuthRequired())
	{
		authed.POST("/reload", admin.Reload)
	}

	return r
}
