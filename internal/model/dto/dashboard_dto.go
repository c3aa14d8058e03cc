package dto

// ========== Dashboard 相关 DTO ==========

// DashboardData 看板聚合数据，一次快照算出全部
type DashboardData struct {
	Date        string `json:"date"` // 挑战时区下的今天 YYYY-MM-DD
	DayOfMonth  int    `json:"day_of_month"`
	DaysInMonth int    `json:"days_in_month"`

	Urgency UrgencyData `json:"urgency"`

	Team      TeamStatsData   `json:"team"`
	Users     []UserStatsData `json:"users"`     // 按今日距离降序
	Penalties []PenaltyData   `json:"penalties"` // 按罚金降序
}

// UrgencyData 截止紧迫度
type UrgencyData struct {
	Level            string `json:"level"` // normal, warning, urgent, critical
	SecondsRemaining int    `json:"seconds_remaining"`
}

// TeamStatsData 团队当日统计
type TeamStatsData struct {
	DoneCount      int     `json:"done_count"`
	TotalCount     int     `json:"total_count"`
	CompletionRate float64 `json:"completion_rate"` // 0~100
	TotalPenalty   int64   `json:"total_penalty"`   // 本月团队累计罚金
}

// UserStatsData 单个成员的月度统计
type UserStatsData struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	TodayDistance  float64 `json:"today_distance"`
	IsDoneToday    bool    `json:"is_done_today"`
	ValidDays      int     `json:"valid_days"`
	TotalDistance  float64 `json:"total_distance"`
	CompletionRate float64 `json:"completion_rate"` // 0~100
}

// PenaltyData 单个成员的罚金
type PenaltyData struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	MissedDays   int    `json:"missed_days"`
	TotalPenalty int64  `json:"total_penalty"`
}
