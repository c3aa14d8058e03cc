package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/cache"
	"RunCrew/internal/challenge"
	"RunCrew/internal/model"
	"RunCrew/internal/model/dto"
	"RunCrew/internal/queue"
	"RunCrew/pkg/logger"
)

// Locker 上传互斥锁抽象，线上是 Redis SetNX
type Locker interface {
	TryLockSubmission(ctx context.Context, userID int64) (bool, error)
	UnlockSubmission(ctx context.Context, userID int64) error
}

// EventPublisher 记录入账后的旁路动作：失效本地缓存、广播事件
type EventPublisher interface {
	RecordAccepted(ctx context.Context, msg model.RecordAcceptedMessage)
}

// DashboardCache 看板快照缓存抽象
type DashboardCache interface {
	Get(ctx context.Context, date string) (*dto.DashboardData, error)
	Set(ctx context.Context, date string, data *dto.DashboardData) error
}

// rulesFromConfig 从配置装配挑战规则
func rulesFromConfig() challenge.Rules {
	return challenge.Rules{
		DailyGoalKm:         config.Cfg.DailyGoalKm,
		MinUploadKm:         config.Cfg.MinUploadKm,
		MaxPaceMinPerKm:     config.Cfg.MaxPaceMinPerKm,
		PenaltyPerMissedDay: config.Cfg.PenaltyPerMissedDay,
	}
}

var (
	challengeLoc     *time.Location
	challengeLocOnce sync.Once
)

// ChallengeLocation 挑战时区，加载失败回退 UTC
func ChallengeLocation() *time.Location {
	challengeLocOnce.Do(func() {
		loc, err := time.LoadLocation(config.Cfg.ChallengeTimezone)
		if err != nil {
			logger.Logger.Warn("Failed to load challenge timezone, falling back to UTC",
				zap.String("timezone", config.Cfg.ChallengeTimezone),
				zap.Error(err),
			)
			loc = time.UTC
		}
		challengeLoc = loc
	})
	return challengeLoc
}

// redisLocker 默认锁实现
type redisLocker struct{}

func (redisLocker) TryLockSubmission(ctx context.Context, userID int64) (bool, error) {
	return cache.TryLockSubmission(ctx, userID)
}

func (redisLocker) UnlockSubmission(ctx context.Context, userID int64) error {
	return cache.UnlockSubmission(ctx, userID)
}

// mqPublisher 默认事件发布实现：本实例直接失效缓存，其他实例靠消费事件
type mqPublisher struct{}

func (mqPublisher) RecordAccepted(ctx context.Context, msg model.RecordAcceptedMessage) {
	cache.InvalidateDashboard(ctx, msg.Date)

	if err := queue.PublishRecordAccepted(msg); err != nil {
		logger.Logger.Warn("Failed to publish record accepted event",
			zap.Int64("user_id", msg.UserID),
			zap.String("date", msg.Date),
			zap.Error(err),
		)
	}
}

// redisDashboardCache 默认看板缓存实现
type redisDashboardCache struct{}

func (redisDashboardCache) Get(ctx context.Context, date string) (*dto.DashboardData, error) {
	return cache.GetDashboard(ctx, date)
}

func (redisDashboardCache) Set(ctx context.Context, date string, data *dto.DashboardData) error {
	return cache.SetDashboard(ctx, date, data)
}
