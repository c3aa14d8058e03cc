package schedule

// 罚金调度器：每天过零点后扫描昨天没跑够的成员，生成延迟短信通知

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/cache"
	"RunCrew/internal/challenge"
	"RunCrew/internal/model"
	"RunCrew/internal/queue"
	"RunCrew/internal/store"
	"RunCrew/pkg/logger"
	"RunCrew/pkg/snowflake"
	"RunCrew/storage/database"
)

var (
	schedulerOnce sync.Once
	schedulerInst *PenaltyScheduler
)

type PenaltyScheduler struct {
	logger *zap.Logger
	store  store.Store
	rules  challenge.Rules
	loc    *time.Location

	jobRunning  bool
	jobMu       sync.Mutex
	lastJobTime time.Time

	now func() time.Time
}

func GetScheduler() *PenaltyScheduler {
	schedulerOnce.Do(func() {
		loc, err := time.LoadLocation(config.Cfg.ChallengeTimezone)
		if err != nil {
			logger.Logger.Warn("Failed to load challenge timezone, falling back to UTC",
				zap.String("timezone", config.Cfg.ChallengeTimezone),
				zap.Error(err),
			)
			loc = time.UTC
		}

		schedulerInst = NewPenaltyScheduler(
			store.NewGormStore(database.DB()),
			challenge.Rules{
				DailyGoalKm:         config.Cfg.DailyGoalKm,
				MinUploadKm:         config.Cfg.MinUploadKm,
				MaxPaceMinPerKm:     config.Cfg.MaxPaceMinPerKm,
				PenaltyPerMissedDay: config.Cfg.PenaltyPerMissedDay,
			},
			loc,
		)
	})
	return schedulerInst
}

func NewPenaltyScheduler(st store.Store, rules challenge.Rules, loc *time.Location) *PenaltyScheduler {
	return &PenaltyScheduler{
		logger: logger.Logger,
		store:  st,
		rules:  rules,
		loc:    loc,
		now:    time.Now,
	}
}

// ScheduleDailyPenalties 扫描昨天的漏卡成员并投放罚金通知消息
// 按漏卡日期做幂等标记，同一天只会投放一次
func (s *PenaltyScheduler) ScheduleDailyPenalties(ctx context.Context) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Penalty job already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	startTime := s.now().In(s.loc)
	s.lastJobTime = startTime

	yesterday := time.Date(startTime.Year(), startTime.Month(), startTime.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -1)
	missedDate := yesterday.Format("2006-01-02")

	s.logger.Info("Starting daily penalty scheduler",
		zap.Time("start_time", startTime),
		zap.String("missed_date", missedDate),
	)

	scheduled, err := cache.IsPenaltyScheduled(ctx, missedDate)
	if err != nil {
		s.logger.Warn("Failed to check penalty scheduled status, proceeding",
			zap.String("missed_date", missedDate),
			zap.Error(err),
		)
	} else if scheduled {
		s.logger.Info("Penalty notices already scheduled for this date, skipping",
			zap.String("missed_date", missedDate),
		)
		return nil
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		s.logger.Info("No users registered, nothing to schedule")
		return nil
	}

	// 月初第一天扫的是上个月最后一天，记录要按漏卡日所在月取
	records, err := s.store.ListMonthRecords(ctx, yesterday.Format("2006-01"))
	if err != nil {
		s.logger.Error("Failed to list month records", zap.Error(err))
		return fmt.Errorf("failed to list month records: %w", err)
	}

	// 罚金快照以漏卡日次日为基准，这样昨天会被计入区间
	refForPenalty := yesterday.AddDate(0, 0, 1)
	penalties, _ := s.rules.ComputePenalties(users, records, refForPenalty)
	penaltyByUser := make(map[int64]challenge.PenaltyRecord, len(penalties))
	for _, p := range penalties {
		penaltyByUser[p.UserID] = p
	}

	notices := make([]model.PenaltyUserNotice, 0, len(users))
	for _, u := range users {
		if !s.rules.MissedDay(u, records, yesterday) {
			continue
		}

		p, ok := penaltyByUser[u.PublicID]
		if !ok {
			// MissedDay 为真时 ComputePenalties 必然有记录，兜底补一条
			p = challenge.PenaltyRecord{
				UserID:       u.PublicID,
				Name:         u.Name,
				MissedDays:   1,
				TotalPenalty: s.rules.PenaltyPerMissedDay,
			}
		}

		notices = append(notices, model.PenaltyUserNotice{
			UserID:       u.PublicID,
			Name:         u.Name,
			Phone:        u.Phone,
			MissedDays:   p.MissedDays,
			TotalPenalty: p.TotalPenalty,
		})
	}

	if len(notices) == 0 {
		s.logger.Info("Everyone made the goal yesterday, no penalty notices",
			zap.String("missed_date", missedDate),
		)
		if err := cache.MarkPenaltyScheduled(ctx, missedDate); err != nil {
			s.logger.Warn("Failed to mark penalty scheduled",
				zap.String("missed_date", missedDate),
				zap.Error(err),
			)
		}
		return nil
	}

	batchID, err := snowflake.NextID()
	if err != nil {
		s.logger.Error("Failed to generate batch ID", zap.Error(err))
		return fmt.Errorf("failed to generate batch ID: %w", err)
	}

	delay := s.noticeDelay(startTime)

	msg := model.PenaltyNoticeMessage{
		MessageID:    fmt.Sprintf("penalty_notice_%d", batchID),
		BatchID:      fmt.Sprintf("%d", batchID),
		MissedDate:   missedDate,
		ScheduledAt:  startTime.Format(time.RFC3339),
		Notices:      notices,
		DelaySeconds: int(delay.Seconds()),
	}

	if err := queue.PublishPenaltyNotice(msg); err != nil {
		s.logger.Error("Failed to publish penalty notice message",
			zap.String("missed_date", missedDate),
			zap.Int("user_count", len(notices)),
			zap.Error(err),
		)
		return err
	}

	if err := cache.MarkPenaltyScheduled(ctx, missedDate); err != nil {
		// 标记失败不影响主流程，消费端还有消息级幂等兜底
		s.logger.Warn("Failed to mark penalty scheduled after publishing",
			zap.String("missed_date", missedDate),
			zap.Error(err),
		)
	}

	s.logger.Info("Daily penalty scheduler completed",
		zap.String("missed_date", missedDate),
		zap.Int("user_count", len(notices)),
		zap.Duration("notice_delay", delay),
		zap.Duration("duration", time.Since(startTime)),
	)

	return nil
}

// noticeDelay 计算到发送时刻的延迟，通知时间已过就立即发送
func (s *PenaltyScheduler) noticeDelay(now time.Time) time.Duration {
	noticeAt, err := time.Parse("15:04", config.Cfg.PenaltyNoticeTime)
	if err != nil {
		s.logger.Warn("Failed to parse penalty notice time, sending immediately",
			zap.String("notice_time", config.Cfg.PenaltyNoticeTime),
			zap.Error(err),
		)
		return 0
	}

	target := time.Date(now.Year(), now.Month(), now.Day(),
		noticeAt.Hour(), noticeAt.Minute(), 0, 0, now.Location())

	delay := target.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}
