package dto

// ========== Submission 相关 DTO ==========

// SubmissionResult 上传校验结果
// 被拒绝不是错误，是正常业务结果，用户换张截图即可重试
type SubmissionResult struct {
	Accepted        bool    `json:"accepted"`
	Reason          string  `json:"reason,omitempty"` // 拒绝原因码，接受时为空
	Message         string  `json:"message,omitempty"`
	DistanceKm      float64 `json:"distance_km"` // 截断后的入账距离
	DurationMinutes float64 `json:"duration_minutes"`
	PaceMinPerKm    float64 `json:"pace_min_per_km"`

	// 接受时返回入账的记录
	Record *RecordData `json:"record,omitempty"`
}
