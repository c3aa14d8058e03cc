package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/model/dto"
	"RunCrew/pkg/logger"
)

// 看板快照缓存，key 是挑战时区下的日期，入账新记录时整体失效
var dashboardCache = NewProtectedCache("dashboard",
	time.Duration(config.Cfg.DashboardCacheTTLSeconds)*time.Second)

// GetDashboard 读缓存的看板快照，未命中返回 nil
func GetDashboard(ctx context.Context, date string) (*dto.DashboardData, error) {
	var data dto.DashboardData
	hit, err := dashboardCache.Get(ctx, date, &data)
	if err != nil || !hit {
		return nil, err
	}
	return &data, nil
}

// SetDashboard 写入看板快照
func SetDashboard(ctx context.Context, date string, data *dto.DashboardData) error {
	return dashboardCache.Set(ctx, date, data)
}

// InvalidateDashboard 失效指定日期的看板快照
func InvalidateDashboard(ctx context.Context, date string) {
	if err := dashboardCache.Delete(ctx, date); err != nil {
		logger.Logger.Warn("Failed to invalidate dashboard cache",
			zap.String("date", date),
			zap.Error(err),
		)
	}
}
