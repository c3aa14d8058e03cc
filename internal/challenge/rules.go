package challenge

// Rules 挑战规则，四个口径全部来自配置，聚合逻辑只读这里
type Rules struct {
	DailyGoalKm         float64 // 每日达标距离
	MinUploadKm         float64 // 单次上传最低距离
	MaxPaceMinPerKm     float64 // 配速上限，超过按步行拒绝
	PenaltyPerMissedDay int64   // 每漏一天的罚金
}

// 拒绝原因码，与 pkg/errors 的错误码保持一致
const (
	ReasonDistanceBelowMinimum = "DISTANCE_BELOW_MINIMUM"
	ReasonDurationUnreadable   = "DURATION_UNREADABLE"
	ReasonPaceTooSlow          = "PACE_TOO_SLOW"
)
