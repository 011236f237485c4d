// Package dto はadminフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/admin/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Password string `json:"password" binding:"required"`
}

// TokenResp はログイン成功時のレスポンスボディです。
type TokenResp struct {
	Token string `json:"token"`
}
