// Package jwtmw はJWTトークンの生成と検証ミドルウェアを提供します。
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret は署名鍵を読み込む環境変数名です。
const EnvKeyJWTSecret = "JWT_SECRET"

// Generator はJWTトークン生成のインターフェースです。
type Generator interface {
	// GenerateToken は指定されたサブジェクトに対する署名済みJWTトークンを生成します。
	GenerateToken(subject string) (string, error)
}

// generator はGeneratorインターフェースの実装です。
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator は指定された秘密鍵と有効期限で新しいJWTジェネレータを生成します。
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken は標準クレーム付きの署名済みJWTトークンを生成します。
func (g *generator) GenerateToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(g.expiration).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
