// Package handler はadminフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_charts/internal/feature/admin/transport/http/dto"
	mdusecase "stock_charts/internal/feature/marketdata/usecase"
)

// AdminUsecase は管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AdminUsecase interface {
	// Login は管理者パスワードを検証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, password string) (string, error)
	// Reload は全銘柄を再読み込みし、稼働中のStoreを置き換えます。
	Reload(ctx context.Context) (mdusecase.LoadReport, error)
}

// AdminHandler は管理操作のHTTPリクエストを処理します。
type AdminHandler struct {
	admin AdminUsecase
}

// NewAdminHandler はAdminHandlerの新しいインスタンスを生成します。
func NewAdminHandler(admin AdminUsecase) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Login は管理者ログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 成功時はJWTトークン付きで200を返却
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("admin login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	token, err := h.admin.Login(c.Request.Context(), req.Password)
	if err != nil {
		// 実際の失敗理由は公開しない
		slog.Warn("admin login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}
	slog.Info("admin login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResp{Token: token})
}

// Reload はデータ再読み込みAPIエンドポイントを処理します。
// 成功時はロード結果（成功銘柄と失敗銘柄）を返します。
func (h *AdminHandler) Reload(c *gin.Context) {
	report, err := h.admin.Reload(c.Request.Context())
	if err != nil {
		slog.Error("store reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}
