package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func rec(userID int64, date string, km float64) model.WorkoutRecord {
	return model.WorkoutRecord{UserID: userID, Date: date, DistanceKm: km, IsValid: true}
}

func TestComputeStats(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	// 本月第 10 天
	ref := time.Date(2026, 9, 10, 15, 0, 0, 0, loc)

	users := []model.User{
		{PublicID: 1, Name: "jun"},
		{PublicID: 2, Name: "mina"},
		{PublicID: 3, Name: "idle"},
	}
	records := []model.WorkoutRecord{
		// jun：今天两段加起来达标，本月 3 个有效天
		rec(1, "2026-09-10", 1.5),
		rec(1, "2026-09-10", 1.6),
		rec(1, "2026-09-03", 5.0),
		rec(1, "2026-09-04", 3.0),
		rec(1, "2026-09-05", 2.9), // 不够 3.0，不算有效天
		// mina：今天跑了但没达标
		rec(2, "2026-09-10", 2.0),
		// 上个月的记录不参与本月统计
		rec(2, "2026-08-31", 10.0),
		// 无效记录被忽略
		{UserID: 3, Date: "2026-09-10", DistanceKm: 5.0, IsValid: false},
	}

	stats, team := rules.ComputeStats(users, records, ref)

	require.Len(t, stats, 3)

	// 今日距离降序：jun 3.1 > mina 2.0 > idle 0
	require.Equal(t, int64(1), stats[0].UserID)
	require.Equal(t, int64(2), stats[1].UserID)
	require.Equal(t, int64(3), stats[2].UserID)

	jun := stats[0]
	require.InDelta(t, 3.1, jun.TodayDistance, 1e-9)
	require.True(t, jun.IsDoneToday)
	require.Equal(t, 3, jun.ValidDays) // 09-03, 09-04, 09-10
	require.InDelta(t, 14.0, jun.TotalDistance, 1e-9)
	require.InDelta(t, 30.0, jun.CompletionRate, 1e-9) // 3/10*100

	mina := stats[1]
	require.InDelta(t, 2.0, mina.TodayDistance, 1e-9)
	require.False(t, mina.IsDoneToday)
	require.Equal(t, 0, mina.ValidDays)

	idle := stats[2]
	require.Zero(t, idle.TodayDistance)
	require.Zero(t, idle.TotalDistance)

	require.Equal(t, 1, team.DoneCount)
	require.Equal(t, 3, team.TotalCount)
	require.InDelta(t, 100.0/3, team.CompletionRate, 1e-9)
}

func TestComputeStatsNoUsers(t *testing.T) {
	rules := defaultRules()
	ref := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)

	stats, team := rules.ComputeStats(nil, nil, ref)

	require.Empty(t, stats)
	require.Zero(t, team.DoneCount)
	require.Zero(t, team.TotalCount)
	require.Zero(t, team.CompletionRate)
}

func TestComputeStatsStableOrderOnTie(t *testing.T) {
	rules := defaultRules()
	ref := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)

	users := []model.User{
		{PublicID: 1, Name: "a"},
		{PublicID: 2, Name: "b"},
		{PublicID: 3, Name: "c"},
	}
	records := []model.WorkoutRecord{
		rec(1, "2026-09-10", 3.0),
		rec(2, "2026-09-10", 3.0),
		rec(3, "2026-09-10", 3.0),
	}

	stats, _ := rules.ComputeStats(users, records, ref)

	// 同距离时保持入参顺序
	require.Equal(t, int64(1), stats[0].UserID)
	require.Equal(t, int64(2), stats[1].UserID)
	require.Equal(t, int64(3), stats[2].UserID)
}

func TestDaysInMonth(t *testing.T) {
	require.Equal(t, 30, DaysInMonth(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 31, DaysInMonth(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 28, DaysInMonth(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 29, DaysInMonth(time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC)))
}
