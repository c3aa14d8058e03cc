package model

// PenaltyNoticeMessage 罚金通知消息，调度器每日凌晨扫描后按批发送
type PenaltyNoticeMessage struct {
	MessageID   string              `json:"message_id"` // 消息唯一ID，用于幂等性检查
	BatchID     string              `json:"batch_id"`
	MissedDate  string              `json:"missed_date"` // 漏卡的日期 YYYY-MM-DD
	ScheduledAt string              `json:"scheduled_at"`
	Notices     []PenaltyUserNotice `json:"notices"`

	DelaySeconds int `json:"delay_seconds"`
}

// PenaltyUserNotice 单个用户的罚金快照（扫描时刻的值）
type PenaltyUserNotice struct {
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"` // 为空则跳过短信
	MissedDays   int    `json:"missed_days"`     // 本月累计漏卡天数
	TotalPenalty int64  `json:"total_penalty"`   // 本月累计罚金
}

// RecordAcceptedMessage 记录入账事件，用于跨实例失效看板缓存
type RecordAcceptedMessage struct {
	MessageID  string  `json:"message_id"`
	UserID     int64   `json:"user_id"`
	Date       string  `json:"date"`
	DistanceKm float64 `json:"distance_km"`
	OccurredAt string  `json:"occurred_at"`
}
