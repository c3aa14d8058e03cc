package dto

// ========== Record 相关 DTO ==========

// RecordData 运动记录数据
type RecordData struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name,omitempty"`
	Date         string  `json:"date"`
	DistanceKm   float64 `json:"distance_km"`
	PaceMinPerKm float64 `json:"pace_min_per_km"`
	ImageURL     string  `json:"image_url,omitempty"`
	UploadedAt   string  `json:"uploaded_at"`
}

// RecentRecordsQuery 最近记录查询参数
type RecentRecordsQuery struct {
	Limit int `query:"limit"`
}
