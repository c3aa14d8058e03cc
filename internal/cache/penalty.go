package cache

import (
	"context"
	"fmt"
	"time"

	"RunCrew/storage/redis"
)

const (
	// 罚金扫描的调度标记，调度器重跑时据此跳过已投放的日期
	penaltyScheduledPrefix = "penalty:scheduled"

	scheduledTTL = 48 * time.Hour
)

// IsPenaltyScheduled 检查指定漏卡日期的罚金通知是否已投放
func IsPenaltyScheduled(ctx context.Context, missedDate string) (bool, error) {
	key := redis.Key(penaltyScheduledPrefix, missedDate)
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check penalty scheduled status: %w", err)
	}
	return result > 0, nil
}

// MarkPenaltyScheduled 标记指定漏卡日期的罚金通知已投放
func MarkPenaltyScheduled(ctx context.Context, missedDate string) error {
	key := redis.Key(penaltyScheduledPrefix, missedDate)
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// UnmarkPenaltyScheduled 清除投放标记（投放失败时调用，允许下一轮重试）
func UnmarkPenaltyScheduled(ctx context.Context, missedDate string) error {
	key := redis.Key(penaltyScheduledPrefix, missedDate)
	return redis.Client().Del(ctx, key).Err()
}
