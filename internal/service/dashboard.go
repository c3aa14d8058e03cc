package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/internal/challenge"
	"RunCrew/internal/model/dto"
	"RunCrew/internal/store"
	"RunCrew/pkg/logger"
	"RunCrew/storage/database"
)

var (
	dashboardService *DashboardService
	dashboardOnce    sync.Once
)

func Dashboard() *DashboardService {
	dashboardOnce.Do(func() {
		dashboardService = NewDashboardService(
			store.NewGormStore(database.DB()),
			rulesFromConfig(),
			ChallengeLocation(),
			redisDashboardCache{},
		)
	})
	return dashboardService
}

type DashboardService struct {
	store store.Store
	rules challenge.Rules
	loc   *time.Location
	cache DashboardCache // 可以为 nil，测试时直接跳过缓存

	now func() time.Time
}

func NewDashboardService(st store.Store, rules challenge.Rules, loc *time.Location, cache DashboardCache) *DashboardService {
	return &DashboardService{
		store: st,
		rules: rules,
		loc:   loc,
		cache: cache,
		now:   time.Now,
	}
}

// GetDashboard 返回看板快照，同一天内短暂缓存，记录入账即失效
func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardData, error) {
	ref := s.now().In(s.loc)
	date := ref.Format("2006-01-02")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, date)
		if err != nil {
			logger.Logger.Warn("Dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	data, err := s.compose(ctx, ref)
	if err != nil {
		return nil, err
	}

	// 刷新过程中请求被取消就丢弃这次结果，不写缓存
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, date, data); err != nil {
			logger.Logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}

	return data, nil
}

// compose 一次快照算出全部看板数据
func (s *DashboardService) compose(ctx context.Context, ref time.Time) (*dto.DashboardData, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	records, err := s.store.ListMonthRecords(ctx, ref.Format("2006-01"))
	if err != nil {
		return nil, fmt.Errorf("failed to list month records: %w", err)
	}

	stats, team := s.rules.ComputeStats(users, records, ref)
	penalties, teamPenalty := s.rules.ComputePenalties(users, records, ref)

	seconds := challenge.SecondsUntilEndOfDay(ref)

	data := &dto.DashboardData{
		Date:        ref.Format("2006-01-02"),
		DayOfMonth:  ref.Day(),
		DaysInMonth: challenge.DaysInMonth(ref),
		Urgency: dto.UrgencyData{
			Level:            string(challenge.UrgencyTheme(seconds)),
			SecondsRemaining: seconds,
		},
		Team: dto.TeamStatsData{
			DoneCount:      team.DoneCount,
			TotalCount:     team.TotalCount,
			CompletionRate: team.CompletionRate,
			TotalPenalty:   teamPenalty,
		},
		Users:     make([]dto.UserStatsData, 0, len(stats)),
		Penalties: make([]dto.PenaltyData, 0, len(penalties)),
	}

	for _, st := range stats {
		data.Users = append(data.Users, dto.UserStatsData{
			UserID:         strconv.FormatInt(st.UserID, 10),
			Name:           st.Name,
			TodayDistance:  st.TodayDistance,
			IsDoneToday:    st.IsDoneToday,
			ValidDays:      st.ValidDays,
			TotalDistance:  st.TotalDistance,
			CompletionRate: st.CompletionRate,
		})
	}

	for _, p := range penalties {
		data.Penalties = append(data.Penalties, dto.PenaltyData{
			UserID:       strconv.FormatInt(p.UserID, 10),
			Name:         p.Name,
			MissedDays:   p.MissedDays,
			TotalPenalty: p.TotalPenalty,
		})
	}

	return data, nil
}

// RecentRecords 最近入账的记录，带上成员名字
func (s *DashboardService) RecentRecords(ctx context.Context, limit int) ([]dto.RecordData, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := s.store.ListRecentRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent records: %w", err)
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.PublicID] = u.Name
	}

	out := make([]dto.RecordData, 0, len(records))
	for _, rec := range records {
		out = append(out, *toRecordData(rec, names[rec.UserID]))
	}
	return out, nil
}
