package challenge

import (
	"sort"
	"time"

	"RunCrew/internal/model"
)

// UserStats 单个成员的月度统计
type UserStats struct {
	UserID         int64
	Name           string
	TodayDistance  float64
	IsDoneToday    bool
	ValidDays      int
	TotalDistance  float64
	CompletionRate float64 // 0~100
}

// TeamDailyStats 团队当日统计
type TeamDailyStats struct {
	DoneCount      int
	TotalCount     int
	CompletionRate float64 // 0~100
}

// ComputeStats 对一次快照做月度聚合，ref 决定"本月"和"今天"
// 入参的 records 应当只含有效记录，按成员的 public_id 关联
func (r Rules) ComputeStats(users []model.User, records []model.WorkoutRecord, ref time.Time) ([]UserStats, TeamDailyStats) {
	monthPrefix := ref.Format("2006-01")
	today := ref.Format("2006-01-02")
	dayOfMonth := ref.Day()

	// 先按成员分桶，再按日期汇总距离
	byUser := make(map[int64]map[string]float64, len(users))
	for _, rec := range records {
		if !rec.IsValid || len(rec.Date) < 7 || rec.Date[:7] != monthPrefix {
			continue
		}
		days, ok := byUser[rec.UserID]
		if !ok {
			days = make(map[string]float64)
			byUser[rec.UserID] = days
		}
		days[rec.Date] += rec.DistanceKm
	}

	stats := make([]UserStats, 0, len(users))
	team := TeamDailyStats{TotalCount: len(users)}

	for _, u := range users {
		s := UserStats{UserID: u.PublicID, Name: u.Name}

		for date, dist := range byUser[u.PublicID] {
			s.TotalDistance += dist
			if dist >= r.DailyGoalKm {
				s.ValidDays++
			}
			if date == today {
				s.TodayDistance = dist
			}
		}

		s.IsDoneToday = s.TodayDistance >= r.DailyGoalKm
		if s.IsDoneToday {
			team.DoneCount++
		}
		if dayOfMonth > 0 {
			s.CompletionRate = float64(s.ValidDays) / float64(dayOfMonth) * 100
		}

		stats = append(stats, s)
	}

	// 今日距离降序，稳定排序保证同距离时顺序不跳
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TodayDistance > stats[j].TodayDistance
	})

	if team.TotalCount > 0 {
		team.CompletionRate = float64(team.DoneCount) / float64(team.TotalCount) * 100
	}

	return stats, team
}

// DaysInMonth 返回 ref 所在月份的天数
func DaysInMonth(ref time.Time) int {
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}
