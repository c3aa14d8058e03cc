package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model"
	"RunCrew/internal/model/dto"
	"RunCrew/internal/store"
)

func appendRecord(t *testing.T, st *store.MemoryStore, userID int64, date string, distance float64, uploadedAt time.Time) {
	t.Helper()
	rec := &model.WorkoutRecord{
		PublicID:   uploadedAt.UnixNano(),
		UserID:     userID,
		Date:       date,
		DistanceKm: distance,
		IsValid:    true,
		UploadedAt: uploadedAt,
	}
	require.NoError(t, st.AppendRecord(context.Background(), rec))
}

type dashboardFixture struct {
	svc   *DashboardService
	store *store.MemoryStore
	now   time.Time
}

// 两名成员的十一月快照：
//   - minji 11-01 入队，11-12 跑 3.0、11-13 跑 2.0（不达标）、今天 5.0
//   - hoon  11-12 入队，11-13 跑 4.0、今天分两次共 3.5
func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	loc := challengeTZ(t)
	now := time.Date(2025, 11, 14, 10, 0, 0, 0, loc)

	st := store.NewMemoryStore()
	seedUser(t, st, 101, "minji", time.Date(2025, 11, 1, 0, 30, 0, 0, loc))
	seedUser(t, st, 102, "hoon", time.Date(2025, 11, 12, 9, 0, 0, 0, loc))

	appendRecord(t, st, 101, "2025-11-12", 3.0, time.Date(2025, 11, 12, 20, 0, 0, 0, loc))
	appendRecord(t, st, 101, "2025-11-13", 2.0, time.Date(2025, 11, 13, 21, 0, 0, 0, loc))
	appendRecord(t, st, 101, "2025-11-14", 5.0, time.Date(2025, 11, 14, 8, 0, 0, 0, loc))
	appendRecord(t, st, 102, "2025-11-13", 4.0, time.Date(2025, 11, 13, 22, 0, 0, 0, loc))
	appendRecord(t, st, 102, "2025-11-14", 1.5, time.Date(2025, 11, 14, 7, 0, 0, 0, loc))
	appendRecord(t, st, 102, "2025-11-14", 2.0, time.Date(2025, 11, 14, 9, 30, 0, 0, loc))

	svc := NewDashboardService(st, testRules(), loc, nil)
	svc.now = func() time.Time { return now }

	return &dashboardFixture{svc: svc, store: st, now: now}
}

func TestGetDashboardSnapshot(t *testing.T) {
	f := newDashboardFixture(t)

	data, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)

	require.Equal(t, "2025-11-14", data.Date)
	require.Equal(t, 14, data.DayOfMonth)
	require.Equal(t, 30, data.DaysInMonth)

	// 上午十点，离截止还早
	require.Equal(t, "normal", data.Urgency.Level)
	require.Greater(t, data.Urgency.SecondsRemaining, 12*3600)

	require.Equal(t, 2, data.Team.DoneCount)
	require.Equal(t, 2, data.Team.TotalCount)
	require.InDelta(t, 100.0, data.Team.CompletionRate, 1e-9)

	// 今日距离降序：minji 5.0 在前，hoon 3.5 在后
	require.Len(t, data.Users, 2)
	require.Equal(t, "101", data.Users[0].UserID)
	require.InDelta(t, 5.0, data.Users[0].TodayDistance, 1e-9)
	require.True(t, data.Users[0].IsDoneToday)
	require.Equal(t, 2, data.Users[0].ValidDays) // 11-13 只有 2.0，不算达标日
	require.InDelta(t, 10.0, data.Users[0].TotalDistance, 1e-9)
	require.InDelta(t, 2.0/14.0*100, data.Users[0].CompletionRate, 1e-9)

	require.Equal(t, "102", data.Users[1].UserID)
	require.InDelta(t, 3.5, data.Users[1].TodayDistance, 1e-9) // 当天两次上传求和
	require.True(t, data.Users[1].IsDoneToday)
	require.Equal(t, 2, data.Users[1].ValidDays)
	require.InDelta(t, 7.5, data.Users[1].TotalDistance, 1e-9)
}

func TestGetDashboardPenalties(t *testing.T) {
	f := newDashboardFixture(t)

	data, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// minji 从 11-01 起算：11-01~11-11 共 11 天漏卡，11-13 不达标，合计 12 天
	// hoon 从入队日 11-12 起算：11-12 没有记录，1 天
	// 今天 11-14 不计入，当天还有完成机会
	require.Len(t, data.Penalties, 2)
	require.Equal(t, "101", data.Penalties[0].UserID)
	require.Equal(t, 12, data.Penalties[0].MissedDays)
	require.Equal(t, int64(240000), data.Penalties[0].TotalPenalty)

	require.Equal(t, "102", data.Penalties[1].UserID)
	require.Equal(t, 1, data.Penalties[1].MissedDays)
	require.Equal(t, int64(20000), data.Penalties[1].TotalPenalty)

	require.Equal(t, int64(260000), data.Team.TotalPenalty)
}

type fakeDashboardCache struct {
	data map[string]*dto.DashboardData
	gets int
	sets int
}

func newFakeDashboardCache() *fakeDashboardCache {
	return &fakeDashboardCache{data: make(map[string]*dto.DashboardData)}
}

func (c *fakeDashboardCache) Get(ctx context.Context, date string) (*dto.DashboardData, error) {
	c.gets++
	return c.data[date], nil
}

func (c *fakeDashboardCache) Set(ctx context.Context, date string, data *dto.DashboardData) error {
	c.sets++
	c.data[date] = data
	return nil
}

func TestGetDashboardUsesCache(t *testing.T) {
	f := newDashboardFixture(t)
	cache := newFakeDashboardCache()
	f.svc.cache = cache

	first, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, cache.gets)
	require.Equal(t, 1, cache.sets) // 命中后不再写
	require.Same(t, first, second)
}

func TestRecentRecords(t *testing.T) {
	f := newDashboardFixture(t)

	records, err := f.svc.RecentRecords(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 按上传时间倒序，带上成员名字
	require.Equal(t, "hoon", records[0].UserName)
	require.InDelta(t, 2.0, records[0].DistanceKm, 1e-9)
	require.Equal(t, "minji", records[1].UserName)
	require.InDelta(t, 5.0, records[1].DistanceKm, 1e-9)
	require.Equal(t, "hoon", records[2].UserName)
	require.InDelta(t, 1.5, records[2].DistanceKm, 1e-9)
}

func TestRecentRecordsDefaultLimit(t *testing.T) {
	f := newDashboardFixture(t)

	records, err := f.svc.RecentRecords(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 6) // limit 非法时回落默认值 20，全部 6 条都返回
}
