package cache

import (
	"time"
)

// TimeUntilNextMidnightUTC は次のUTC午前0時までの期間を返します。
// 日足データは日付が変わるまで更新されないため、キャッシュTTLとして使います。
func TimeUntilNextMidnightUTC() time.Duration {
	now := time.Now().UTC()

	// 翌日の午前0時を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)

	return next.Sub(now)
}
