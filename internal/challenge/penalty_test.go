package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model"
)

func TestComputePenalties(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	// 第 5 天，可计罚区间是 09-01 ~ 09-04
	ref := time.Date(2026, 9, 5, 10, 0, 0, 0, loc)

	joined := time.Date(2026, 9, 3, 14, 30, 0, 0, loc)
	users := []model.User{
		{PublicID: 1, Name: "full"},                     // 月初就在，4 天全勤
		{PublicID: 2, Name: "slacker"},                  // 月初就在，只跑了 1 天
		{PublicID: 3, Name: "newbie", JoinedAt: &joined}, // 09-03 入队，只看 09-03、09-04
	}
	records := []model.WorkoutRecord{
		rec(1, "2026-09-01", 3.0),
		rec(1, "2026-09-02", 5.0),
		rec(1, "2026-09-03", 3.1),
		rec(1, "2026-09-04", 4.0),

		rec(2, "2026-09-02", 3.0),
		rec(2, "2026-09-03", 2.9), // 不达标

		rec(3, "2026-09-04", 3.0),
	}

	penalties, teamTotal := rules.ComputePenalties(users, records, ref)

	// 每个成员都在表里：slacker 漏 3 天，newbie 漏 1 天（09-03），full 全勤罚 0
	require.Len(t, penalties, 3)

	require.Equal(t, int64(2), penalties[0].UserID)
	require.Equal(t, 3, penalties[0].MissedDays)
	require.Equal(t, int64(60000), penalties[0].TotalPenalty)

	require.Equal(t, int64(3), penalties[1].UserID)
	require.Equal(t, 1, penalties[1].MissedDays)
	require.Equal(t, int64(20000), penalties[1].TotalPenalty)

	require.Equal(t, int64(1), penalties[2].UserID)
	require.Zero(t, penalties[2].MissedDays)
	require.Zero(t, penalties[2].TotalPenalty)

	require.Equal(t, int64(80000), teamTotal)
}

func TestComputePenaltiesKeepsCompliantUsers(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	ref := time.Date(2026, 9, 3, 10, 0, 0, 0, loc)

	users := []model.User{
		{PublicID: 1, Name: "steady"},
		{PublicID: 2, Name: "misser"},
	}
	records := []model.WorkoutRecord{
		rec(1, "2026-09-01", 3.0),
		rec(1, "2026-09-02", 3.0),
	}

	penalties, teamTotal := rules.ComputePenalties(users, records, ref)

	// 全勤成员不会从表里消失，只是罚 0
	require.Len(t, penalties, 2)
	require.Equal(t, int64(2), penalties[0].UserID)
	require.Equal(t, 2, penalties[0].MissedDays)
	require.Equal(t, int64(40000), penalties[0].TotalPenalty)
	require.Equal(t, int64(1), penalties[1].UserID)
	require.Zero(t, penalties[1].MissedDays)
	require.Zero(t, penalties[1].TotalPenalty)
	require.Equal(t, int64(40000), teamTotal)
}

func TestComputePenaltiesTodayNotCounted(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	// 月第一天，扫描区间为空，谁都不罚
	ref := time.Date(2026, 9, 1, 23, 0, 0, 0, loc)

	users := []model.User{{PublicID: 1, Name: "a"}}

	penalties, teamTotal := rules.ComputePenalties(users, nil, ref)

	require.Len(t, penalties, 1)
	require.Zero(t, penalties[0].MissedDays)
	require.Zero(t, penalties[0].TotalPenalty)
	require.Zero(t, teamTotal)
}

func TestComputePenaltiesSameDayJoin(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	ref := time.Date(2026, 9, 10, 9, 0, 0, 0, loc)

	joined := time.Date(2026, 9, 10, 8, 0, 0, 0, loc)
	users := []model.User{{PublicID: 1, Name: "fresh", JoinedAt: &joined}}

	// 当天入队，一个可计罚日都没有，但成员本身还在表里
	penalties, teamTotal := rules.ComputePenalties(users, nil, ref)

	require.Len(t, penalties, 1)
	require.Equal(t, int64(1), penalties[0].UserID)
	require.Zero(t, penalties[0].MissedDays)
	require.Zero(t, penalties[0].TotalPenalty)
	require.Zero(t, teamTotal)
}

func TestComputePenaltiesSortedByPenaltyDesc(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	ref := time.Date(2026, 9, 4, 10, 0, 0, 0, loc)

	users := []model.User{
		{PublicID: 1, Name: "one-miss"},
		{PublicID: 2, Name: "all-miss"},
	}
	records := []model.WorkoutRecord{
		rec(1, "2026-09-01", 3.0),
		rec(1, "2026-09-02", 3.0),
		// 1 号只漏 09-03，2 号三天全漏
	}

	penalties, _ := rules.ComputePenalties(users, records, ref)

	require.Len(t, penalties, 2)
	require.Equal(t, int64(2), penalties[0].UserID)
	require.Equal(t, 3, penalties[0].MissedDays)
	require.Equal(t, int64(1), penalties[1].UserID)
	require.Equal(t, 1, penalties[1].MissedDays)
}

func TestMissedDay(t *testing.T) {
	rules := defaultRules()
	loc := mustLoc(t)
	day := time.Date(2026, 9, 9, 0, 0, 0, 0, loc)

	u := model.User{PublicID: 1, Name: "a"}

	records := []model.WorkoutRecord{
		rec(1, "2026-09-09", 1.5),
		rec(1, "2026-09-09", 1.5),
	}

	// 两段加起来刚好 3.0，不算漏
	require.False(t, rules.MissedDay(u, records, day))

	// 少一段就不够
	require.True(t, rules.MissedDay(u, records[:1], day))

	// 入队晚于该日不计罚
	joined := time.Date(2026, 9, 10, 0, 0, 0, 0, loc)
	late := model.User{PublicID: 2, Name: "b", JoinedAt: &joined}
	require.False(t, rules.MissedDay(late, nil, day))
}
