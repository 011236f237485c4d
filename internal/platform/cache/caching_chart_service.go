// Package cache はチャート生成に対するRedisキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_charts/internal/feature/charts/domain/entity"
	"stock_charts/internal/feature/charts/usecase"
)

// ChartProvider はチャート生成レイヤーを抽象化します。
type ChartProvider interface {
	GetChart(ctx context.Context, req entity.ChartRequest) (*usecase.ChartResult, error)
}

// CachingChartService はChartProviderをRedisキャッシュでデコレートします。
// 描画済みPNGと除外銘柄をまとめてキャッシュし、同一リクエストの再描画を
// 回避します。下位レイヤーを変更せず透過的にキャッシュを追加します。
type CachingChartService struct {
	inner     ChartProvider
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

// NewCachingChartService はChartProviderをRedisキャッシュでデコレートします。
// ttlは保存のたびに評価されます。日付の切り替わりなど締め切りに合わせた
// 有効期限を、起動時刻に関係なく守るためです。ttlがnilの場合は固定5分、
// namespaceが空の場合は"charts"が使われます。
func NewCachingChartService(rdb *redis.Client, ttl func() time.Duration, inner ChartProvider, namespace string) *CachingChartService {
	if ttl == nil {
		ttl = func() time.Duration { return 5 * time.Minute }
	}
	if namespace == "" {
		namespace = "charts"
	}
	return &CachingChartService{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetChart はキャッシュを確認し、ミス時のみ下位レイヤーで生成します。
// 検証エラーはキャッシュせず、成功した結果のみ保存します。
func (c *CachingChartService) GetChart(ctx context.Context, req entity.ChartRequest) (*usecase.ChartResult, error) {
	// Redis未設定時はキャッシュをバイパス
	if c.rdb == nil {
		return c.inner.GetChart(ctx, req)
	}

	key := c.cacheKey(req)

	// 1) キャッシュ確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out usecase.ChartResult
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// 壊れたキャッシュエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) 下位レイヤーで生成
	out, err := c.inner.GetChart(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3) キャッシュへ保存（ベストエフォート）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl()).Err()
	}

	return out, nil
}

// Invalidate はこのサービスのキャッシュエントリをすべて削除します。
// データの再読み込み後に古いチャートを配り続けないために使われます。
func (c *CachingChartService) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey はリクエストの正規形からキャッシュキーを生成します。
// 銘柄は大文字化して順序を保ったまま連結するため、同じ指定は同じキーに
// なります。
func (c *CachingChartService) cacheKey(req entity.ChartRequest) string {
	syms := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			syms = append(syms, safe(s))
		}
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d:%d:%d:%d:%d:%d",
		c.namespace,
		safe(string(req.Type)),
		strings.Join(syms, ","),
		req.Window,
		req.SMAWindow,
		req.EMASpan,
		req.MACDShort,
		req.MACDLong,
		req.MACDSignal,
		req.Tail,
	)
}

// deleteByPattern はSCANでパターンに一致するキーをすべて削除します。
func (c *CachingChartService) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe はRedisキーとして問題になる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
