package challenge

import "time"

// UrgencyLevel 截止紧迫度，驱动前端的主题切换
type UrgencyLevel string

const (
	UrgencyNormal   UrgencyLevel = "normal"
	UrgencyWarning  UrgencyLevel = "warning"  // 剩不到 12 小时
	UrgencyUrgent   UrgencyLevel = "urgent"   // 剩不到 3 小时
	UrgencyCritical UrgencyLevel = "critical" // 剩不到 1 小时
)

// UrgencyTheme 由剩余秒数算紧迫度，纯函数，时钟由调用方注入
func UrgencyTheme(secondsRemaining int) UrgencyLevel {
	switch {
	case secondsRemaining < 3600:
		return UrgencyCritical
	case secondsRemaining < 3*3600:
		return UrgencyUrgent
	case secondsRemaining < 12*3600:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// SecondsUntilEndOfDay 距离当天 23:59:59 的秒数，不会返回负值
func SecondsUntilEndOfDay(now time.Time) int {
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	secs := int(end.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
