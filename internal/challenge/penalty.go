package challenge

import (
	"sort"
	"time"

	"RunCrew/internal/model"
)

// PenaltyRecord 单个成员的月度罚金
type PenaltyRecord struct {
	UserID       int64
	Name         string
	MissedDays   int
	TotalPenalty int64
}

// ComputePenalties 统计本月每个成员的漏卡天数和罚金
// 每个成员都会出现在结果里，全勤成员罚金为 0，看板照样渲染整张罚金表
// 扫描区间是 [max(月初, 入队日), 今天)，今天不算，给当天留完成机会
// 日期必须按日历逐天推进，跨夏令时用 24 小时步进会漏天或重天
func (r Rules) ComputePenalties(users []model.User, records []model.WorkoutRecord, ref time.Time) ([]PenaltyRecord, int64) {
	monthPrefix := ref.Format("2006-01")
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

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

	penalties := make([]PenaltyRecord, 0, len(users))
	var teamTotal int64

	for _, u := range users {
		start := monthStart
		if u.JoinedAt != nil {
			ja := u.JoinedAt.In(ref.Location())
			joinDay := time.Date(ja.Year(), ja.Month(), ja.Day(), 0, 0, 0, 0, ref.Location())
			if joinDay.After(start) {
				start = joinDay
			}
		}

		days := byUser[u.PublicID]
		missed := 0
		for d := start; d.Before(today); d = d.AddDate(0, 0, 1) {
			if days[d.Format("2006-01-02")] < r.DailyGoalKm {
				missed++
			}
		}

		total := int64(missed) * r.PenaltyPerMissedDay
		teamTotal += total
		penalties = append(penalties, PenaltyRecord{
			UserID:       u.PublicID,
			Name:         u.Name,
			MissedDays:   missed,
			TotalPenalty: total,
		})
	}

	// 罚金降序
	sort.SliceStable(penalties, func(i, j int) bool {
		return penalties[i].TotalPenalty > penalties[j].TotalPenalty
	})

	return penalties, teamTotal
}

// MissedDay 判断某个成员在指定日期是否漏卡（该日在可计罚范围内且没跑够）
// 调度器用它来挑出昨天没达标的人
func (r Rules) MissedDay(u model.User, records []model.WorkoutRecord, day time.Time) bool {
	date := day.Format("2006-01-02")
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	if u.JoinedAt != nil {
		ja := u.JoinedAt.In(day.Location())
		joinDay := time.Date(ja.Year(), ja.Month(), ja.Day(), 0, 0, 0, 0, day.Location())
		if joinDay.After(dayStart) {
			return false
		}
	}

	var dist float64
	for _, rec := range records {
		if rec.IsValid && rec.UserID == u.PublicID && rec.Date == date {
			dist += rec.DistanceKm
		}
	}
	return dist < r.DailyGoalKm
}
