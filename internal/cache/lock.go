package cache

import (
	"context"
	"fmt"
	"time"

	"RunCrew/storage/redis"
)

// SetNX 实现的分布式锁，保证同一成员同一时刻只有一次上传在跑
const (
	lockPrefix = "lock"

	submissionLockTTL = 2 * time.Minute
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()

	if err != nil {
		return false, err
	}

	return result, err
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}

// TryLockSubmission 占住成员的上传锁，拿不到说明已有一次上传在处理
func TryLockSubmission(ctx context.Context, userID int64) (bool, error) {
	return TryLock(ctx, fmt.Sprintf("submission:%d", userID), submissionLockTTL)
}

func UnlockSubmission(ctx context.Context, userID int64) error {
	return Unlock(ctx, fmt.Sprintf("submission:%d", userID))
}
