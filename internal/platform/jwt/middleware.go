package jwtmw

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextSubject は検証済みトークンのサブジェクトを保持するコンテキストキーです。
const ContextSubject = "subject"

// AuthRequired はJWTトークンを検証し、認証済みの呼び出しのみ通過させる
// Ginミドルウェアを返します。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorizationヘッダを取得
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. 環境変数から署名鍵を読み込み
		secret := os.Getenv(EnvKeyJWTSecret)
		if secret == "" {
			// サーバー設定不備（JWT_SECRET未設定）
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. JWT署名を検証
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// 署名アルゴリズムの確認（HMACのみ許可）
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. クレームからサブジェクトを取り出し
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set(ContextSubject, sub)
			}
		}
		// 5. 次のハンドラへ
		c.Next()
	}
}
