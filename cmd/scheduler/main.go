package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/schedule"
	"RunCrew/pkg/logger"
	"RunCrew/pkg/metrics"
	"RunCrew/pkg/snowflake"
	"RunCrew/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runDailyPenaltyLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runDailyPenaltyLoop 每天挑战时区 00:05 扫一次昨天的漏卡名单
func runDailyPenaltyLoop(ctx context.Context) {
	s := schedule.GetScheduler()

	loc, err := time.LoadLocation(config.Cfg.ChallengeTimezone)
	if err != nil {
		logger.Logger.Warn("Failed to load challenge timezone for scheduler loop, falling back to UTC",
			zap.String("timezone", config.Cfg.ChallengeTimezone),
			zap.Error(err),
		)
		loc = time.UTC
	}

	// development 环境下每分钟跑一次，方便本地调试，幂等标记保证不重复投放
	if config.Cfg.Environment == "development" {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Daily penalty scheduler running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				if err := s.ScheduleDailyPenalties(runCtx); err != nil {
					logger.Logger.Error("Daily penalty scheduler run failed (development interval)", zap.Error(err))
				}
				cancel()
			}
		}
	}

	for {
		// 计算下一次运行时间（挑战时区的 00:05），跨天用 AddDate 而不是加 24h
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next daily penalty run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := s.ScheduleDailyPenalties(runCtx); err != nil {
				logger.Logger.Error("Daily penalty scheduler run failed", zap.Error(err))
			}
			cancel()
		}
	}
}
