// Package usecase は管理操作（ログイン・データ再読み込み）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	mdentity "stock_charts/internal/feature/marketdata/domain/entity"
	mdusecase "stock_charts/internal/feature/marketdata/usecase"
)

const (
	// EnvKeyAdminPasswordHash は管理者パスワードのbcryptハッシュを読み込む
	// 環境変数名です。
	EnvKeyAdminPasswordHash = "ADMIN_PASSWORD_HASH"

	// adminSubject は発行するトークンのサブジェクトです。
	adminSubject = "admin"
)

// ErrReloadEmptyStore は再読み込みの結果が空Storeになった場合のエラーです。
// この場合、稼働中のStoreは置き換えられません。
var ErrReloadEmptyStore = errors.New("reload produced an empty store, keeping current data")

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたサブジェクトの署名済みJWTトークンを生成します。
	GenerateToken(subject string) (string, error)
}

// SeriesLoader は全銘柄の一括ロードを抽象化します。
type SeriesLoader interface {
	LoadAll(ctx context.Context, symbols []string) (*mdentity.Store, mdusecase.LoadReport)
}

// StoreSwapper は稼働中のStoreの置き換えを抽象化します。
type StoreSwapper interface {
	Replace(store *mdentity.Store)
}

// CacheInvalidator はチャートキャッシュの無効化を抽象化します。
// キャッシュ未構成の場合はnilで構いません。
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// adminUsecase は管理操作のビジネスロジックを実装します。
type adminUsecase struct {
	jwtGenerator JWTGenerator
	loader       SeriesLoader
	holder       StoreSwapper
	cache        CacheInvalidator
	symbols      []string
}

// NewAdminUsecase はadminUsecaseの新しいインスタンスを生成します。
// cacheはnil許容です。
func NewAdminUsecase(jwtGenerator JWTGenerator, loader SeriesLoader, holder StoreSwapper, cache CacheInvalidator, symbols []string) *adminUsecase {
	return &adminUsecase{
		jwtGenerator: jwtGenerator,
		loader:       loader,
		holder:       holder,
		cache:        cache,
		symbols:      symbols,
	}
}

// Login は管理者パスワードを検証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ハッシュ未設定でもbcrypt比較を実行します。
func (u *adminUsecase) Login(ctx context.Context, password string) (string, error) {
	configured := os.Getenv(EnvKeyAdminPasswordHash)

	// ハッシュ未設定時のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	hash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if configured != "" {
		hash = configured
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if configured == "" || compareErr != nil {
		return "", errors.New("invalid password")
	}

	token, err := u.jwtGenerator.GenerateToken(adminSubject)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Reload は全銘柄を再読み込みし、稼働中のStoreをアトミックに置き換えます。
// 再読み込み中も進行中のリクエストは古いStoreを読み続けます。
// 結果が空Storeになる場合は置き換えず、現在のデータを維持します。
func (u *adminUsecase) Reload(ctx context.Context) (mdusecase.LoadReport, error) {
	store, report := u.loader.LoadAll(ctx, u.symbols)
	if store.Len() == 0 {
		return report, ErrReloadEmptyStore
	}

	u.holder.Replace(store)

	// 古いチャートを配り続けないようキャッシュを無効化（ベストエフォート）
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate chart cache after reload", "error", err)
		}
	}

	slog.Info("store reloaded", "loaded", len(report.Loaded), "failed", len(report.Failed))
	return report, nil
}
